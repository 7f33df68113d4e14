// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

func init() {
	// Keep pdfcpu from installing its own config files under the user's
	// config directory.
	model.ConfigPath = "disable"
}

// ValidatePDF parses and validates the PDF at path and returns its page
// count.
func ValidatePDF(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	ctx, err := api.ReadValidateAndOptimize(f, model.NewDefaultConfiguration())
	if err != nil {
		return 0, fmt.Errorf("pdfcpu validate: %w", err)
	}
	if ctx.PageCount < 1 {
		return 0, fmt.Errorf("pdfcpu validate: document has no pages")
	}
	return ctx.PageCount, nil
}
