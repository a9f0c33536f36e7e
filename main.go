package main

import (
	"log"
	"os"
	"strings"

	"consolidator/cmd"
	"consolidator/pkg/logging"

	"golang.org/x/term"
)

func main() {
	err := cmd.Execute()

	// Sync only when stderr can be synced; pipes and consoles report EINVAL.
	if logger := logging.Logger; logger != nil && (term.IsTerminal(int(os.Stderr.Fd())) || isRegularFile(os.Stderr)) {
		if syncErr := logger.Sync(); syncErr != nil {
			if !strings.Contains(strings.ToLower(syncErr.Error()), "invalid argument") {
				log.Printf("Logger sync failed: %v", syncErr)
			}
		}
	}

	if err != nil {
		os.Exit(1)
	}
}

// isRegularFile checks if the given file is a regular file.
func isRegularFile(f *os.File) bool {
	fileInfo, err := f.Stat()
	if err != nil {
		return false
	}
	return fileInfo.Mode().IsRegular()
}
