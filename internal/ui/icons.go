package ui

import (
	"os"
	"strings"
	"sync"
)

// IconSet is the glyph inventory shared by the views. Which set is active
// depends on the terminal, decided once at startup.
type IconSet struct {
	Check        string
	Cross        string
	Warning      string
	Info         string
	Lightning    string
	FolderOpen   string
	FolderClosed string
	File         string
	Chart        string
	Gear         string
	Sparkles     string
	Inbox        string
}

func unicodeIcons() IconSet {
	return IconSet{
		Check:        "✓",
		Cross:        "✗",
		Warning:      "⚠",
		Info:         "ℹ",
		Lightning:    "⚡",
		FolderOpen:   "▼",
		FolderClosed: "▶",
		File:         "•",
		Chart:        "▓",
		Gear:         "⚙",
		Sparkles:     "✨",
		Inbox:        "→",
	}
}

func asciiIcons() IconSet {
	return IconSet{
		Check:        "[ok]",
		Cross:        "[x]",
		Warning:      "[!]",
		Info:         "[i]",
		Lightning:    ">",
		FolderOpen:   "v",
		FolderClosed: ">",
		File:         "-",
		Chart:        "#",
		Gear:         "*",
		Sparkles:     "*",
		Inbox:        "->",
	}
}

var forceASCII bool

// ForceASCIIIcons switches to the ASCII glyph set. Must be called before the
// first render.
func ForceASCIIIcons() {
	forceASCII = true
}

var iconsOnce = sync.OnceValue(func() IconSet {
	if forceASCII {
		return asciiIcons()
	}
	// Non-UTF-8 locales get the ASCII set.
	lang := os.Getenv("LC_ALL")
	if lang == "" {
		lang = os.Getenv("LANG")
	}
	if lang != "" && !strings.Contains(strings.ToUpper(lang), "UTF") {
		return asciiIcons()
	}
	return unicodeIcons()
})

// Icons returns the shared icon set.
func Icons() IconSet {
	return iconsOnce()
}
