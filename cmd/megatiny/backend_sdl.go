//go:build !nosdl

package main

// The SDL backend needs cgo and the SDL2 libraries; build with -tags nosdl
// to leave it out.
import _ "github.com/vovakirdan/megatiny/internal/backend/sdl"
