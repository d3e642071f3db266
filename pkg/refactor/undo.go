package refactor

import (
	"fmt"
	"os"
	"sort"
	"strings"
)

// WriteUndoScript emits a shell script restoring every modified file from
// its backup. The script is idempotent: each restore checks the backup
// still exists.
func WriteUndoScript(path string, result *Result) error {
	if len(result.Backups) == 0 {
		return fmt.Errorf("nothing to undo")
	}

	files := make([]string, 0, len(result.Backups))
	for file := range result.Backups {
		files = append(files, file)
	}
	sort.Strings(files)

	var sb strings.Builder
	sb.WriteString("#!/bin/sh\n")
	sb.WriteString("# Restores files modified by deadwood --delete.\n")
	sb.WriteString("set -e\n\n")
	for _, file := range files {
		backup := result.Backups[file]
		fmt.Fprintf(&sb, "if [ -f %q ]; then\n", backup)
		fmt.Fprintf(&sb, "  mv %q %q\n", backup, file)
		fmt.Fprintf(&sb, "  echo restored %q\n", file)
		fmt.Fprintf(&sb, "fi\n")
	}
	return os.WriteFile(path, []byte(sb.String()), 0o755)
}

// RemoveBackups deletes the backup files after a confirmed run.
func RemoveBackups(result *Result) {
	for _, backup := range result.Backups {
		os.Remove(backup)
	}
}
