package main

import (
	"fmt"
	"io"
	"strings"

	flag "github.com/spf13/pflag"

	toolbox "github.com/alnah/go-toolbox"
)

// Shell represents a supported shell for completion generation.
type Shell string

// Supported shells for completion.
const (
	ShellBash       Shell = "bash"
	ShellZsh        Shell = "zsh"
	ShellFish       Shell = "fish"
	ShellPowerShell Shell = "powershell"
)

// ErrUnsupportedShell is returned when an unknown shell is requested.
var ErrUnsupportedShell = fmt.Errorf("unsupported shell")

// flagType represents the completion type for a flag.
type flagType int

const (
	flagString flagType = iota // default
	flagBool
	flagInt
	flagFloat
	flagEnum // has predefined values
	flagFile // file with glob pattern
	flagDir  // directory
)

// flagDef describes a flag for completion purposes.
type flagDef struct {
	Long     string   // --output
	Short    string   // -o (empty if none)
	Type     flagType // completion type
	Desc     string   // help text
	Values   []string // for enum flags
	FileGlob string   // for file flags
}

// takesValue reports whether the flag consumes the next word.
func (f flagDef) takesValue() bool { return f.Type != flagBool }

// commandDef describes a command for completion.
type commandDef struct {
	Name        string
	Desc        string
	Flags       []flagDef
	TakesFiles  bool   // accepts file arguments
	FilePattern string // glob for file arguments (e.g., "*.txt")
}

// completionMeta holds completion-specific metadata for flags.
// Flag names, types, and descriptions come from the FlagSet.
type completionMeta struct {
	Values   []string // enum values
	FileGlob string   // file glob pattern
	IsDir    bool     // directory completion
}

// flagCompletionMeta maps flag names to their completion metadata.
var flagCompletionMeta = map[string]completionMeta{
	"page-size":   {Values: []string{"a4", "letter", "legal"}},
	"orientation": {Values: []string{"portrait", "landscape"}},
	"direction":   {Values: []string{"to-pdf", "from-pdf"}},
	"locale":      {Values: []string{"en", "id"}},
	"unit":        {Values: []string{"metric", "imperial"}},

	"config": {FileGlob: "*.yaml,*.yml"},

	"output": {IsDir: true},
}

// extractFlagsFromFlagSet extracts flag definitions from a pflag.FlagSet.
// Enriches with completion metadata from flagCompletionMeta.
func extractFlagsFromFlagSet(fs *flag.FlagSet) []flagDef {
	var flags []flagDef

	fs.VisitAll(func(f *flag.Flag) {
		fd := flagDef{
			Long:  f.Name,
			Short: f.Shorthand,
			Desc:  f.Usage,
		}

		switch f.Value.Type() {
		case "bool":
			fd.Type = flagBool
		case "int", "int8", "int16", "int32", "int64", "uint", "uint8", "uint16", "uint32", "uint64":
			fd.Type = flagInt
		case "float32", "float64":
			fd.Type = flagFloat
		default:
			fd.Type = flagString
		}

		if meta, ok := flagCompletionMeta[f.Name]; ok {
			switch {
			case len(meta.Values) > 0:
				fd.Type = flagEnum
				fd.Values = meta.Values
			case meta.FileGlob != "":
				fd.Type = flagFile
				fd.FileGlob = meta.FileGlob
			case meta.IsDir:
				fd.Type = flagDir
			}
		}

		flags = append(flags, fd)
	})

	return flags
}

// getCommands returns the command registry for completion.
// Flags are extracted from the actual FlagSets.
func getCommands() []commandDef {
	return []commandDef{
		{
			Name:        "convert",
			Desc:        "Convert text and image files to PDF",
			Flags:       extractFlagsFromFlagSet(buildConvertFlagSet(&convertFlags{}, io.Discard)),
			TakesFiles:  true,
			FilePattern: "*." + strings.Join(toolbox.SupportedExtensions(), ",*."),
		},
		{Name: "calendar", Desc: "Show a month or year with holidays", Flags: extractFlagsFromFlagSet(buildCalendarFlagSet(&calendarFlags{}, io.Discard))},
		{Name: "rates", Desc: "Show exchange rates or convert an amount", Flags: extractFlagsFromFlagSet(buildRatesFlagSet(&ratesFlags{}, io.Discard))},
		{Name: "password", Desc: "Generate random passwords", Flags: extractFlagsFromFlagSet(buildPasswordFlagSet(&passwordFlags{}, io.Discard))},
		{Name: "bmi", Desc: "Compute body mass index", Flags: extractFlagsFromFlagSet(buildBMIFlagSet(&bmiFlags{}, io.Discard))},
		{Name: "serve", Desc: "Serve the HTTP API", Flags: extractFlagsFromFlagSet(buildServeFlagSet(&serveFlags{}, io.Discard))},
		{Name: "doctor", Desc: "Check system configuration", Flags: extractFlagsFromFlagSet(buildDoctorFlagSet(&doctorFlags{}, io.Discard))},
		{Name: "version", Desc: "Show version information"},
		{Name: "help", Desc: "Show help for a command"},
		{Name: "completion", Desc: "Generate shell completion script"},
	}
}

// GenerateCompletion writes shell completion script to w.
// Returns error if shell is unsupported or write fails.
func GenerateCompletion(w io.Writer, shell Shell) error {
	var script string
	switch shell {
	case ShellBash:
		script = generateBash(getCommands())
	case ShellZsh:
		script = generateZsh(getCommands())
	case ShellFish:
		script = generateFish(getCommands())
	case ShellPowerShell:
		script = generatePowerShell(getCommands())
	default:
		return fmt.Errorf("%w: %q (supported: bash, zsh, fish, powershell)", ErrUnsupportedShell, shell)
	}
	_, err := io.WriteString(w, script)
	return err
}

// runCompletion handles the completion command.
func runCompletion(args []string, env *Environment) error {
	if len(args) == 0 {
		printCompletionUsage(env.Stdout)
		return nil
	}
	return GenerateCompletion(env.Stdout, Shell(args[0]))
}

func commandNames(cmds []commandDef) []string {
	names := make([]string, len(cmds))
	for i, c := range cmds {
		names[i] = c.Name
	}
	return names
}

func longFlags(c commandDef) []string {
	out := make([]string, 0, len(c.Flags)*2)
	for _, f := range c.Flags {
		out = append(out, "--"+f.Long)
		if f.Short != "" {
			out = append(out, "-"+f.Short)
		}
	}
	return out
}

// globs splits "*.a,*.b" into its patterns.
func globs(pattern string) []string {
	if pattern == "" {
		return nil
	}
	return strings.Split(pattern, ",")
}

func generateBash(cmds []commandDef) string {
	var b strings.Builder
	b.WriteString("# bash completion for toolbox\n")
	b.WriteString("_toolbox_completions() {\n")
	b.WriteString("    local cur prev cmd\n")
	b.WriteString("    cur=\"${COMP_WORDS[COMP_CWORD]}\"\n")
	b.WriteString("    prev=\"${COMP_WORDS[COMP_CWORD-1]}\"\n")
	b.WriteString("    cmd=\"${COMP_WORDS[1]}\"\n\n")
	b.WriteString("    if [[ ${COMP_CWORD} -eq 1 ]]; then\n")
	fmt.Fprintf(&b, "        COMPREPLY=($(compgen -W %q -- \"$cur\"))\n", strings.Join(commandNames(cmds), " "))
	b.WriteString("        return\n    fi\n\n")

	b.WriteString("    case \"$prev\" in\n")
	seen := map[string]bool{}
	for _, c := range cmds {
		for _, f := range c.Flags {
			if seen["--"+f.Long] || !f.takesValue() {
				continue
			}
			seen["--"+f.Long] = true
			pat := "--" + f.Long
			// A shorthand reused by a later command keeps its first meaning.
			if f.Short != "" && !seen["-"+f.Short] {
				seen["-"+f.Short] = true
				pat += "|-" + f.Short
			}
			switch f.Type {
			case flagEnum:
				fmt.Fprintf(&b, "        %s) COMPREPLY=($(compgen -W %q -- \"$cur\")); return ;;\n", pat, strings.Join(f.Values, " "))
			case flagDir:
				fmt.Fprintf(&b, "        %s) COMPREPLY=($(compgen -d -- \"$cur\")); return ;;\n", pat)
			case flagFile:
				fmt.Fprintf(&b, "        %s) COMPREPLY=($(compgen -f -- \"$cur\")); return ;;\n", pat)
			default:
				fmt.Fprintf(&b, "        %s) return ;;\n", pat)
			}
		}
	}
	b.WriteString("    esac\n\n")

	b.WriteString("    case \"$cmd\" in\n")
	for _, c := range cmds {
		if len(c.Flags) == 0 && !c.TakesFiles {
			continue
		}
		fmt.Fprintf(&b, "        %s)\n", c.Name)
		fmt.Fprintf(&b, "            if [[ \"$cur\" == -* ]]; then\n")
		fmt.Fprintf(&b, "                COMPREPLY=($(compgen -W %q -- \"$cur\"))\n", strings.Join(longFlags(c), " "))
		if c.TakesFiles {
			b.WriteString("            else\n")
			b.WriteString("                COMPREPLY=($(compgen -f -- \"$cur\"))\n")
		}
		b.WriteString("            fi\n            ;;\n")
	}
	b.WriteString("        completion)\n")
	b.WriteString("            COMPREPLY=($(compgen -W \"bash zsh fish powershell\" -- \"$cur\"))\n")
	b.WriteString("            ;;\n")
	b.WriteString("    esac\n}\n")
	b.WriteString("complete -F _toolbox_completions toolbox\n")
	return b.String()
}

func zshEscape(s string) string {
	return strings.NewReplacer("'", "'\\''", "[", "\\[", "]", "\\]", ":", "\\:").Replace(s)
}

func generateZsh(cmds []commandDef) string {
	var b strings.Builder
	b.WriteString("#compdef toolbox\n\n")
	b.WriteString("_toolbox() {\n")
	b.WriteString("    local -a commands\n    commands=(\n")
	for _, c := range cmds {
		fmt.Fprintf(&b, "        '%s:%s'\n", c.Name, zshEscape(c.Desc))
	}
	b.WriteString("    )\n\n")
	b.WriteString("    if (( CURRENT == 2 )); then\n")
	b.WriteString("        _describe 'command' commands\n        return\n    fi\n\n")
	b.WriteString("    case \"$words[2]\" in\n")
	for _, c := range cmds {
		if len(c.Flags) == 0 && !c.TakesFiles {
			continue
		}
		fmt.Fprintf(&b, "        %s)\n            _arguments \\\n", c.Name)
		for _, f := range c.Flags {
			action := ""
			switch f.Type {
			case flagEnum:
				action = ":" + f.Long + ":(" + strings.Join(f.Values, " ") + ")"
			case flagDir:
				action = ":directory:_files -/"
			case flagFile:
				action = ":file:_files"
			case flagString, flagInt, flagFloat:
				action = ":" + f.Long + ":"
			}
			fmt.Fprintf(&b, "                '--%s[%s]%s' \\\n", f.Long, zshEscape(f.Desc), action)
		}
		if c.TakesFiles {
			fmt.Fprintf(&b, "                '*:file:_files -g \"%s\"' \\\n", strings.Join(globs(c.FilePattern), " "))
		}
		b.WriteString("                && return\n            ;;\n")
	}
	b.WriteString("        completion)\n            _values 'shell' bash zsh fish powershell\n            ;;\n")
	b.WriteString("    esac\n}\n\n")
	b.WriteString("compdef _toolbox toolbox\n")
	return b.String()
}

func generateFish(cmds []commandDef) string {
	var b strings.Builder
	b.WriteString("# fish completion for toolbox\n\n")
	b.WriteString("function __fish_toolbox_needs_command\n")
	b.WriteString("    set -l cmd (commandline -opc)\n")
	b.WriteString("    test (count $cmd) -eq 1\nend\n\n")
	b.WriteString("function __fish_toolbox_using_command\n")
	b.WriteString("    set -l cmd (commandline -opc)\n")
	b.WriteString("    test (count $cmd) -gt 1; and test $cmd[2] = $argv[1]\nend\n\n")
	b.WriteString("complete -c toolbox -f\n")

	for _, c := range cmds {
		fmt.Fprintf(&b, "complete -c toolbox -n __fish_toolbox_needs_command -a %s -d %q\n", c.Name, c.Desc)
	}
	for _, c := range cmds {
		cond := "'__fish_toolbox_using_command " + c.Name + "'"
		for _, f := range c.Flags {
			line := fmt.Sprintf("complete -c toolbox -n %s -l %s", cond, f.Long)
			if f.Short != "" {
				line += " -s " + f.Short
			}
			switch f.Type {
			case flagEnum:
				line += " -x -a " + fmt.Sprintf("%q", strings.Join(f.Values, " "))
			case flagDir:
				line += " -r -a '(__fish_complete_directories)'"
			case flagFile:
				line += " -r -F"
			case flagString, flagInt, flagFloat:
				line += " -r"
			}
			line += fmt.Sprintf(" -d %q", f.Desc)
			b.WriteString(line + "\n")
		}
		if c.TakesFiles {
			fmt.Fprintf(&b, "complete -c toolbox -n %s -F\n", cond)
		}
	}
	b.WriteString("complete -c toolbox -n '__fish_toolbox_using_command completion' -a 'bash zsh fish powershell'\n")
	return b.String()
}

func psQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func generatePowerShell(cmds []commandDef) string {
	var b strings.Builder
	b.WriteString("# PowerShell completion for toolbox\n")
	b.WriteString("Register-ArgumentCompleter -Native -CommandName toolbox -ScriptBlock {\n")
	b.WriteString("    param($wordToComplete, $commandAst, $cursorPosition)\n\n")
	b.WriteString("    $words = $commandAst.CommandElements | ForEach-Object { $_.ToString() }\n")
	b.WriteString("    $flags = @{\n")
	for _, c := range cmds {
		quoted := make([]string, 0, len(c.Flags))
		for _, f := range longFlags(c) {
			quoted = append(quoted, psQuote(f))
		}
		fmt.Fprintf(&b, "        %s = @(%s)\n", psQuote(c.Name), strings.Join(quoted, ", "))
	}
	b.WriteString("    }\n\n")
	b.WriteString("    if ($words.Count -le 2 -and -not $wordToComplete.StartsWith('-')) {\n")
	b.WriteString("        $candidates = $flags.Keys\n")
	b.WriteString("    } else {\n")
	b.WriteString("        $candidates = $flags[$words[1]]\n")
	b.WriteString("    }\n\n")
	b.WriteString("    $candidates | Where-Object { $_ -like \"$wordToComplete*\" } | Sort-Object | ForEach-Object {\n")
	b.WriteString("        [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)\n")
	b.WriteString("    }\n}\n")
	return b.String()
}
