package main

import (
	"debug/elf"
	"io"
	"path/filepath"
	"strings"
)

// CheckPreloadCompatible predicts whether the dynamic loader will honor
// LD_PRELOAD for the given executable. It only inspects the binary on disk
// and never spawns a process. The prediction is best-effort: a binary that
// passes can still defeat injection at runtime (e.g. by execing further
// binaries), but statically linked targets and non-standard loaders are
// rejected before any misleading benchmark run happens.
func CheckPreloadCompatible(path string) error {
	file, err := elf.Open(path)
	if err != nil {
		return &IncompatibleError{Path: path, Reason: "not a dynamically linked ELF executable"}
	}
	defer file.Close()

	if file.Type != elf.ET_EXEC && file.Type != elf.ET_DYN {
		return &IncompatibleError{Path: path, Reason: "not an executable ELF object"}
	}

	interp, err := readInterp(file)
	if err != nil {
		return &IncompatibleError{Path: path, Reason: "failed to read program interpreter"}
	}
	if interp == "" {
		return &IncompatibleError{Path: path, Reason: "statically linked, LD_PRELOAD has no effect"}
	}
	if !isStandardLoader(interp) {
		return &IncompatibleError{Path: path, Reason: "non-standard dynamic loader " + interp}
	}
	return nil
}

func readInterp(file *elf.File) (string, error) {
	for _, prog := range file.Progs {
		if prog.Type != elf.PT_INTERP {
			continue
		}
		data := make([]byte, prog.Filesz)
		if _, err := io.ReadFull(prog.Open(), data); err != nil {
			return "", err
		}
		return strings.TrimRight(string(data), "\x00"), nil
	}
	return "", nil
}

func isStandardLoader(interp string) bool {
	base := filepath.Base(interp)
	return strings.HasPrefix(base, "ld-linux") || strings.HasPrefix(base, "ld64.so") || base == "ld.so"
}
