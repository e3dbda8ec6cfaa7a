package util

// Ver is injected at build time through ldflags.
var Ver = "development"

func Version() string {
	return Ver
}
