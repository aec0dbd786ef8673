// constants.go
package uv

const (
	// DefaultExecutable is looked up on PATH when no explicit uv path is configured
	DefaultExecutable = "uv"

	// ToolUV, ToolPip and ToolPython name the pass-through tools
	ToolUV     = "uv"
	ToolPip    = "pip"
	ToolPython = "python"
)

// entryPointsProbe prints the console_scripts of one distribution, one per line.
// The distribution name is passed as argv[1].
const entryPointsProbe = `import importlib.metadata, sys
for ep in importlib.metadata.distribution(sys.argv[1]).entry_points:
    if ep.group == "console_scripts":
        print(ep.name)
`
