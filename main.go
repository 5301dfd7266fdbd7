// Copyright 2025 The Efemapa Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"github.com/jcodagnone/efemapa/cmd"
)

var Version = "development"

func main() {
	cmd.Execute(Version)
}
