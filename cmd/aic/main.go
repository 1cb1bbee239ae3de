// Package main is the entry point for the aic CLI application.
// aic generates git commit messages for staged changes with an
// OpenAI-compatible chat completion API.
package main

import (
	"fmt"
	"os"

	"github.com/shenxiangzhuang/aic/internal/cmd"
	apperrors "github.com/shenxiangzhuang/aic/internal/pkg/errors"
)

// Version information - set via ldflags during build
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	rootCmd := cmd.NewRootCmd(version, commit, date)
	if err := rootCmd.Execute(); err != nil {
		if apperrors.IsVerbose() {
			fmt.Fprintln(os.Stderr, apperrors.FormatErrorVerbose(err))
		} else {
			fmt.Fprintln(os.Stderr, apperrors.FormatError(err))
		}
		os.Exit(apperrors.GetExitCode(err))
	}
}
