package pretokenize

import "testing"

func TestIsWhitespace(t *testing.T) {
	for _, r := range []rune{' ', '\t', '\n', '\r', ' ', ' ', ' ', '　'} {
		if !IsWhitespace(r) {
			t.Errorf("IsWhitespace(%U) = false, want true", r)
		}
	}
	for _, r := range []rune{'a', '.', '中', '​'} {
		if IsWhitespace(r) {
			t.Errorf("IsWhitespace(%U) = true, want false", r)
		}
	}
}

func TestIsControl(t *testing.T) {
	for _, r := range []rune{'', '', '', '­', '​', '﻿'} {
		if !IsControl(r) {
			t.Errorf("IsControl(%U) = false, want true", r)
		}
	}
	// Tab, newline and carriage return are whitespace, not control.
	for _, r := range []rune{'\t', '\n', '\r', 'a', ' '} {
		if IsControl(r) {
			t.Errorf("IsControl(%U) = true, want false", r)
		}
	}
}

func TestIsPunctuation(t *testing.T) {
	// The ASCII symbol runs count as punctuation, as in the vocabularies
	// the models were trained with.
	for _, r := range []rune{'.', ',', '!', '?', '$', '+', '<', '=', '>', '^', '`', '|', '~', '[', ']', '«', '،'} {
		if !IsPunctuation(r) {
			t.Errorf("IsPunctuation(%U) = false, want true", r)
		}
	}
	for _, r := range []rune{'a', '5', ' ', '中', '€'} {
		if IsPunctuation(r) {
			t.Errorf("IsPunctuation(%U) = true, want false", r)
		}
	}
}

func TestIsCJKChar(t *testing.T) {
	for _, r := range []rune{'中', '华', 0x4E00, 0x9FFF, 0x3400, 0xF900, 0x20000, 0x2A700} {
		if !IsCJKChar(r) {
			t.Errorf("IsCJKChar(%U) = false, want true", r)
		}
	}
	// Kana and Hangul stay whole words.
	for _, r := range []rune{'あ', 'ア', '한', 'a', '。'} {
		if IsCJKChar(r) {
			t.Errorf("IsCJKChar(%U) = true, want false", r)
		}
	}
}
