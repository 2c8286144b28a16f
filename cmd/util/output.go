package util

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/goccy/go-yaml"
	"github.com/spf13/viper"
)

var (
	bold   = color.New(color.Bold).SprintFunc()
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
)

// Result is the outcome of one command. Byte slices are printed as strings.
type Result map[string]any

// Print writes r in the format selected by the output flag
func Print(w io.Writer, r Result) error {
	switch format := viper.GetString("output"); format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(normalize(r))
	case "yaml":
		b, err := yaml.Marshal(normalize(r))
		if err != nil {
			return err
		}
		_, err = w.Write(b)
		return err
	case "text", "":
		return printText(w, r)
	default:
		return fmt.Errorf("invalid output format %s (expected one of: text, json, yaml)", format)
	}
}

// normalize converts byte slices so json and yaml print them as text
func normalize(v any) any {
	switch v := v.(type) {
	case Result:
		out := make(map[string]any, len(v))
		for k, val := range v {
			out[k] = normalize(val)
		}
		return out
	case []byte:
		if v == nil {
			return nil
		}
		return string(v)
	case [][]byte:
		out := make([]string, len(v))
		for i, b := range v {
			out[i] = string(b)
		}
		return out
	case map[string][]byte:
		out := make(map[string]string, len(v))
		for k, b := range v {
			out[k] = string(b)
		}
		return out
	default:
		return v
	}
}

func printText(w io.Writer, r Result) error {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for _, k := range keys {
		writeText(&sb, k, normalize(r[k]))
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func writeText(sb *strings.Builder, key string, v any) {
	label := bold(key + ":")
	switch v := v.(type) {
	case nil:
		fmt.Fprintf(sb, "%s %s\n", label, yellow("(nil)"))
	case bool:
		if v {
			fmt.Fprintf(sb, "%s %s\n", label, green("true"))
		} else {
			fmt.Fprintf(sb, "%s %s\n", label, yellow("false"))
		}
	case []string:
		if len(v) == 0 {
			fmt.Fprintf(sb, "%s %s\n", label, yellow("(empty)"))
			return
		}
		fmt.Fprintf(sb, "%s\n", label)
		for i, s := range v {
			fmt.Fprintf(sb, "  %s %s\n", cyan(fmt.Sprintf("%d)", i+1)), s)
		}
	case map[string]string:
		if len(v) == 0 {
			fmt.Fprintf(sb, "%s %s\n", label, yellow("(empty)"))
			return
		}
		fields := make([]string, 0, len(v))
		for f := range v {
			fields = append(fields, f)
		}
		sort.Strings(fields)
		fmt.Fprintf(sb, "%s\n", label)
		for _, f := range fields {
			fmt.Fprintf(sb, "  %s %s\n", cyan(f+":"), v[f])
		}
	default:
		fmt.Fprintf(sb, "%s %v\n", label, v)
	}
}
