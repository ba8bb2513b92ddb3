package main

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
	"strings"
)

type BenchmarkCommand struct {
	Name    string   `json:"name"`
	Command []string `json:"command"`
}

type NameAndUri struct {
	Name string
	Uri  string
}

func (n NameAndUri) LogExecuting() {
	Logger.Infof("executing benchmark %v (%v)", n.Name, n.Uri)
}

// GenerateNameAndUri derives a stable identifier for a benchmark command.
// The same (name, argv) pair always produces the same uri.
func GenerateNameAndUri(name string, command []string) NameAndUri {
	if name == "" {
		name = filepath.Base(command[0])
	}
	digest := sha256.Sum256([]byte(name + "\x00" + strings.Join(command, "\x00")))
	uri := slugify(name) + "::" + hex.EncodeToString(digest[:4])
	return NameAndUri{Name: name, Uri: uri}
}

func slugify(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}
