// Copyright (C) The Biplot Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package main

import "github.com/biocore/biplot"

func main() {
	biplot.Main()
}
