package util

import (
	"strings"

	"github.com/google/uuid"
)

func NewID(prefix string) string {
	id := strings.ReplaceAll(uuid.New().String(), "-", "")
	if prefix == "" {
		return id
	}
	return prefix + "_" + id
}
