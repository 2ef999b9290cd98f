package main

import (
	"fmt"
	"io"
	"strings"

	toolbox "github.com/alnah/go-toolbox"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: toolbox <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  convert     Convert text and image files to PDF")
	fmt.Fprintln(w, "  calendar    Show a month or year with public holidays (alias: cal)")
	fmt.Fprintln(w, "  rates       Show exchange rates or convert an amount")
	fmt.Fprintln(w, "  password    Generate random passwords (alias: pw)")
	fmt.Fprintln(w, "  bmi         Compute body mass index")
	fmt.Fprintln(w, "  serve       Serve the HTTP API")
	fmt.Fprintln(w, "  doctor      Check system configuration")
	fmt.Fprintln(w, "  completion  Generate shell completion script")
	fmt.Fprintln(w, "  version     Show version information")
	fmt.Fprintln(w, "  help        Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'toolbox help <command>' for details on a specific command.")
}

func printCommonFlags(w io.Writer) {
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show detailed output")
	fmt.Fprintln(w, "      --no-color            Disable colored output (also NO_COLOR)")
}

// printConvertUsage prints usage for the convert command.
func printConvertUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: toolbox convert <input>... [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Convert text and image files to PDF.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    File or directory; directories contribute text and image files")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Supported: %s\n", strings.Join(toolbox.SupportedExtensions(), ", "))
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output directory or gs://bucket/prefix (default: beside input)")
	fmt.Fprintln(w, "  -d, --direction <s>       to-pdf (default) or from-pdf")
	fmt.Fprintln(w, "  -n, --no-clobber          Fail instead of overwriting existing PDFs")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers (0 = auto)")
	fmt.Fprintln(w, "  -t, --timeout <d>         Per-document timeout (e.g., 30s, 2m)")
	fmt.Fprintln(w, "      --validate            Check produced PDFs")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Page:")
	fmt.Fprintln(w, "  -p, --page-size <s>       Page size: a4, letter, legal")
	fmt.Fprintln(w, "      --orientation <s>     Orientation: portrait, landscape")
	fmt.Fprintln(w, "      --margin <mm>         Margin in millimetres")
	fmt.Fprintln(w, "      --line-height <mm>    Text line height in millimetres")
	fmt.Fprintln(w, "      --font-size <pt>      Text font size in points")
	fmt.Fprintln(w)
	printCommonFlags(w)
}

// printCalendarUsage prints usage for the calendar command.
func printCalendarUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: toolbox calendar [YEAR [MONTH]] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Show the current month, a whole year, or one month with public holidays.")
	fmt.Fprintln(w, "Holidays are drawn in red, weekends in yellow.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -l, --locale <s>          Month and weekday names: en, id")
	fmt.Fprintln(w, "      --offline             Skip the holiday service")
	fmt.Fprintln(w, "      --json                Print JSON")
	fmt.Fprintln(w)
	printCommonFlags(w)
}

// printRatesUsage prints usage for the rates command.
func printRatesUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: toolbox rates [AMOUNT] FROM TO [flags]")
	fmt.Fprintln(w, "       toolbox rates FROM [flags]")
	fmt.Fprintln(w, "       toolbox rates --list")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Convert AMOUNT (default 1) between currencies, or show every rate for FROM.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --list                List supported currencies")
	fmt.Fprintln(w, "      --json                Print JSON")
	fmt.Fprintln(w)
	printCommonFlags(w)
}

// printPasswordUsage prints usage for the password command.
func printPasswordUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: toolbox password [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Generate random passwords. Strength is printed to stderr.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -l, --length <n>          Length (4-128, default 16)")
	fmt.Fprintln(w, "      --no-upper            Exclude uppercase letters")
	fmt.Fprintln(w, "      --no-lower            Exclude lowercase letters")
	fmt.Fprintln(w, "      --no-digits           Exclude digits")
	fmt.Fprintln(w, "      --no-symbols          Exclude symbols")
	fmt.Fprintln(w, "  -n, --count <n>           Number of passwords (1-100)")
	fmt.Fprintln(w, "      --json                Print JSON")
	fmt.Fprintln(w)
	printCommonFlags(w)
}

// printBMIUsage prints usage for the bmi command.
func printBMIUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: toolbox bmi WEIGHT HEIGHT [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Compute body mass index. Metric reads kg and cm, imperial reads lb and in.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -u, --unit <s>            metric (default) or imperial")
	fmt.Fprintln(w, "      --json                Print JSON")
	fmt.Fprintln(w)
	printCommonFlags(w)
}

// printServeUsage prints usage for the serve command.
func printServeUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: toolbox serve [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Serve the HTTP API until interrupted. Logs are JSON on stderr.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -a, --addr <host:port>    Listen address (default :8080)")
	fmt.Fprintln(w, "      --max-upload-mb <n>   Largest accepted upload in MiB (default 20)")
	fmt.Fprintln(w)
	printCommonFlags(w)
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: toolbox doctor [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check the environment, configuration, PDF engine and remote services.")
	fmt.Fprintln(w, "Exits 1 when an error is found; warnings keep exit 0.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --offline             Skip remote service checks")
	fmt.Fprintln(w, "      --json                Print JSON")
	fmt.Fprintln(w)
	printCommonFlags(w)
}

// printCompletionUsage prints help for the completion command.
func printCompletionUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: toolbox completion <shell>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Generate shell completion script for the specified shell.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Supported shells:")
	fmt.Fprintln(w, "  bash        Bash completion script")
	fmt.Fprintln(w, "  zsh         Zsh completion script")
	fmt.Fprintln(w, "  fish        Fish completion script")
	fmt.Fprintln(w, "  powershell  PowerShell completion script")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Installation:")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Bash:")
	fmt.Fprintln(w, "    # Add to ~/.bashrc:")
	fmt.Fprintln(w, "    eval \"$(toolbox completion bash)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Zsh:")
	fmt.Fprintln(w, "    # Add to ~/.zshrc (before compinit):")
	fmt.Fprintln(w, "    eval \"$(toolbox completion zsh)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Fish:")
	fmt.Fprintln(w, "    toolbox completion fish > ~/.config/fish/completions/toolbox.fish")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  PowerShell:")
	fmt.Fprintln(w, "    # Add to $PROFILE:")
	fmt.Fprintln(w, "    toolbox completion powershell | Out-String | Invoke-Expression")
}

// helpTopics maps command names and aliases to their usage printers.
var helpTopics = map[string]func(io.Writer){
	"convert":    printConvertUsage,
	"calendar":   printCalendarUsage,
	"cal":        printCalendarUsage,
	"rates":      printRatesUsage,
	"password":   printPasswordUsage,
	"pw":         printPasswordUsage,
	"bmi":        printBMIUsage,
	"serve":      printServeUsage,
	"doctor":     printDoctorUsage,
	"completion": printCompletionUsage,
	"version": func(w io.Writer) {
		fmt.Fprintln(w, "Usage: toolbox version")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Show version information.")
	},
	"help": func(w io.Writer) {
		fmt.Fprintln(w, "Usage: toolbox help [command]")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Show help for a command.")
	},
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return ExitSuccess
	}

	if usage, ok := helpTopics[args[0]]; ok {
		usage(env.Stdout)
		return ExitSuccess
	}
	fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
	printUsage(env.Stderr)
	return ExitUsage
}
