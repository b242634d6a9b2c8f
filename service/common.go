package service

import (
	"fmt"
	"io"
	"os"
)

// DefaultBackupDir is where session backups are written.
const DefaultBackupDir = "data/backups"

// confirm asks a y/N question on out and reads the answer from in.
func confirm(in io.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [y/N] ", question)
	var response string
	fmt.Fscanln(in, &response)
	return response == "y" || response == "Y"
}

func storeExists(dbPath string) bool {
	_, err := os.Stat(dbPath)
	return err == nil
}
