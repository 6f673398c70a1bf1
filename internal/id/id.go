// Package id provides unique identifier generation for all persisted records.
package id

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Generate creates a prefixed unique ID using NanoID.
// Format: prefix-nanoid (e.g., "thing-V1StGXR8_Z5jdHi6B-myT")
//
// NanoIDs are URL-friendly, compact (21 characters vs UUID's 36),
// and use a larger alphabet for better entropy per character.
//
// Returns an error if the system has insufficient entropy for secure random generation.
func Generate(prefix string) (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + id, nil
}

// MustGenerate is like Generate but panics if ID generation fails.
// Use this only when you're certain the system entropy is available,
// or when failure should crash the program (e.g., during initialization).
func MustGenerate(prefix string) string {
	id, err := Generate(prefix)
	if err != nil {
		panic(fmt.Sprintf("failed to generate ID: %v", err))
	}
	return id
}

// shareCodeAlphabet excludes characters that are easy to misread when a
// code is spoken or hand-typed: 0/O, 1/I/l, and lowercase pairs that
// collide with their uppercase forms at small font sizes.
const shareCodeAlphabet = "23456789ABCDEFGHJKMNPQRSTUVWXYZ"

// shareCodeLength keeps codes short enough to read aloud while leaving
// 31^8 (~850 billion) possible values.
const shareCodeLength = 8

// GenerateShareCode creates a short human-typeable code for invitation links.
// Collisions are possible in principle; callers must check uniqueness on insert.
func GenerateShareCode() (string, error) {
	code, err := gonanoid.Generate(shareCodeAlphabet, shareCodeLength)
	if err != nil {
		return "", fmt.Errorf("generate share code: %w", err)
	}
	return code, nil
}
