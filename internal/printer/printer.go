// Package printer hands rendered invoices to the outside world: a PDF or
// text file on disk, optionally passed on to the platform print command.
package printer

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/andy/invoicer/internal/render"
	"go.uber.org/zap"
)

// Output formats
const (
	FormatPDF  = "pdf"
	FormatText = "txt"
)

// Printer produces a printout of a rendered document and reports where it went
type Printer interface {
	Print(ctx context.Context, doc render.Document) (string, error)
}

// FilePrinter writes <number>.<format> into Dir
type FilePrinter struct {
	Dir    string
	Format string
}

// NewFilePrinter creates a FilePrinter; an empty format means PDF
func NewFilePrinter(dir, format string) *FilePrinter {
	if format == "" {
		format = FormatPDF
	}
	return &FilePrinter{Dir: dir, Format: format}
}

// Print writes the document and returns the file path
func (p *FilePrinter) Print(ctx context.Context, doc render.Document) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var buf bytes.Buffer
	switch p.Format {
	case FormatPDF:
		if err := render.WritePDF(&buf, doc); err != nil {
			return "", err
		}
	case FormatText:
		buf.WriteString(doc.Text())
	default:
		return "", fmt.Errorf("unknown print format %q", p.Format)
	}

	if err := os.MkdirAll(p.Dir, 0755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(p.Dir, fileName(doc.Number)+"."+p.Format)
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

// fileName makes an invoice number safe to use as a file name
func fileName(number string) string {
	number = strings.TrimSpace(number)
	if number == "" {
		return "invoice"
	}
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', ' ':
			return '_'
		}
		return r
	}, number)
}

// CommandPrinter writes the file with File, then runs Command with the file
// path appended as the last argument (e.g. "lp -d office").
type CommandPrinter struct {
	File    Printer
	Command string
	Logger  *zap.Logger
}

// NewCommandPrinter wraps file with a print command hand-off
func NewCommandPrinter(file Printer, command string, logger *zap.Logger) *CommandPrinter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CommandPrinter{File: file, Command: command, Logger: logger}
}

// Print writes the file and hands it to the print command
func (p *CommandPrinter) Print(ctx context.Context, doc render.Document) (string, error) {
	path, err := p.File.Print(ctx, doc)
	if err != nil {
		return "", err
	}

	args := strings.Fields(p.Command)
	if len(args) == 0 {
		return path, nil
	}
	args = append(args, path)

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return path, fmt.Errorf("print command %q failed: %w: %s", p.Command, err, strings.TrimSpace(string(out)))
	}

	p.Logger.Info("sent invoice to printer",
		zap.String("number", doc.Number),
		zap.String("file", path),
		zap.String("command", args[0]),
	)
	return path, nil
}

// New builds the printer for the configured format and command
func New(dir, format, command string, logger *zap.Logger) Printer {
	fp := NewFilePrinter(dir, format)
	if strings.TrimSpace(command) == "" {
		return fp
	}
	return NewCommandPrinter(fp, command, logger)
}
