// Copyright (c) 2025 Visvasity LLC

// Package output holds the code generated by spangen for the records in the
// input package.
package output

//go:generate go run github.com/visvasity/spangen gen -inpkg github.com/visvasity/spangen/input -outdir . -outpkg output Sample Line Document
