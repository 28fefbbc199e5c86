package export

import "fmt"

// Service turns board snapshots into downloadable files.
type Service struct{}

func NewService() *Service {
	return &Service{}
}

// BoardPDF renders the board snapshot to a printable PDF.
func (s *Service) BoardPDF(b Board) (*Result, error) {
	html, err := RenderBoardHTML(b)
	if err != nil {
		return nil, fmt.Errorf("render board: %w", err)
	}
	return printPDF(html, b.Title)
}
