// fakeagent speaks the agent contract aw drives: it accepts --prompt and
// repeated --context-file flags and prints a result document to stdout.
// An optional --script applies file mutations to the working tree, which
// gives end-to-end runs real changes to detect. The exact prompt
// "trigger error" makes it exit non-zero without emitting JSON, which
// exercises the wrapper's invocation failure handling.
package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

type event struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

type result struct {
	OverallStatus        string   `json:"overall_status"`
	Error                *string  `json:"error"`
	Events               []event  `json:"events"`
	ReceivedContextFiles []string `json:"received_context_files"`
}

// errFailed marks runtime failures whose message was already printed.
// They exit 1; anything else Execute returns is a usage problem and
// exits 2.
var errFailed = errors.New("fakeagent failed")

var rootCmd = &cobra.Command{
	Use:           "fakeagent",
	Short:         "Stand-in coding agent for aw",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		prompt, _ := cmd.Flags().GetString("prompt")
		contextFiles, _ := cmd.Flags().GetStringArray("context-file")
		script, _ := cmd.Flags().GetString("script")

		if prompt == "trigger error" {
			fmt.Fprintln(os.Stderr, "Simulated error triggered by prompt.")
			return errFailed
		}

		events := []event{{
			Type:    "text_response",
			Content: fmt.Sprintf("Placeholder response for prompt: %s", prompt),
		}}

		if script != "" {
			applied, err := runScript(script)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Script error: %v\n", err)
				return errFailed
			}
			events = append(events, event{
				Type:    "text_response",
				Content: fmt.Sprintf("Applied %d scripted change(s).", applied),
			})
		}

		res := result{
			OverallStatus:        "success",
			Events:               events,
			ReceivedContextFiles: contextFiles,
		}
		if res.ReceivedContextFiles == nil {
			res.ReceivedContextFiles = []string{}
		}

		data, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "An unexpected error occurred: %v\n", err)
			return errFailed
		}
		fmt.Println(string(data))
		return nil
	},
}

// runScript applies the mutations listed in the script file to the working
// directory, one per line:
//
//	write PATH CONTENT
//	append PATH CONTENT
//	delete PATH
//	rename OLD NEW
//
// Blank lines and lines starting with # are skipped. CONTENT is the rest of
// the line; a literal \n expands to a newline. It returns the number of
// mutations applied.
func runScript(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	applied := 0
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := applyLine(line); err != nil {
			return applied, fmt.Errorf("line %d: %w", lineNo, err)
		}
		applied++
	}
	if err := scanner.Err(); err != nil {
		return applied, err
	}
	return applied, nil
}

func applyLine(line string) error {
	op, rest, _ := strings.Cut(line, " ")
	switch op {
	case "write", "append":
		target, content, _ := strings.Cut(rest, " ")
		if target == "" {
			return fmt.Errorf("%s: missing path", op)
		}
		content = strings.ReplaceAll(content, `\n`, "\n")
		flags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
		if op == "append" {
			flags = os.O_CREATE | os.O_WRONLY | os.O_APPEND
		}
		f, err := os.OpenFile(target, flags, 0644)
		if err != nil {
			return err
		}
		if _, err := f.WriteString(content); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	case "delete":
		if rest == "" {
			return fmt.Errorf("delete: missing path")
		}
		return os.Remove(rest)
	case "rename":
		from, to, _ := strings.Cut(rest, " ")
		if from == "" || to == "" {
			return fmt.Errorf("rename: want OLD NEW, got %q", rest)
		}
		return os.Rename(from, to)
	default:
		return fmt.Errorf("unknown op %q", op)
	}
}

func init() {
	rootCmd.Flags().String("prompt", "", "The prompt to respond to")
	rootCmd.Flags().StringArray("context-file", nil, "Path to a context file to include (repeatable)")
	rootCmd.Flags().String("script", "", "File of mutations to apply to the working tree")
	rootCmd.MarkFlagRequired("prompt")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, errFailed) {
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
}
