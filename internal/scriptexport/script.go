package scriptexport

import (
	"fmt"
	"strconv"
	"strings"

	"shotexport/internal/handoff"
)

// WriteNode is a placeholder that the pipeline replaces with a real write
// node when the script is opened.
type WriteNode struct {
	Name   string
	Output string
}

const writeNodePlaceholder = "ShotgunWriteNodePlaceholder"

// Render produces the script text for one shot. name is the script's own file
// name and is recorded on the root node.
func Render(name string, record handoff.Record, writeNodes []WriteNode) string {
	main := record.Main.Info
	var b strings.Builder

	b.WriteString("#! shotexport composite script\n")
	b.WriteString("Root {\n")
	writeKnob(&b, "inputs", "0")
	writeKnob(&b, "name", quote(name))
	writeKnob(&b, "first_frame", strconv.Itoa(main.TargetStart))
	writeKnob(&b, "last_frame", strconv.Itoa(main.TargetEnd))
	b.WriteString("}\n")

	reads := 1
	writeRead(&b, reads, main.ResolvedPath, main.TargetStart, main.TargetEnd, false)
	for _, path := range record.UniqueOverlappingPaths() {
		reads++
		writeRead(&b, reads, path, main.TargetStart, main.TargetEnd, true)
	}

	for idx, node := range writeNodes {
		b.WriteString("ModifyMetaData {\n")
		writeKnob(&b, "metadata", fmt.Sprintf("{{set name %s} {set output %s}}", quote(node.Name), quote(node.Output)))
		writeKnob(&b, "name", fmt.Sprintf("%s%d", writeNodePlaceholder, idx+1))
		b.WriteString("}\n")
	}

	b.WriteString("Viewer {\n")
	writeKnob(&b, "inputs", "1")
	writeKnob(&b, "frame_range", fmt.Sprintf("%d-%d", main.TargetStart, main.TargetEnd))
	writeKnob(&b, "name", "Viewer1")
	b.WriteString("}\n")
	return b.String()
}

func writeRead(b *strings.Builder, index int, path string, first, last int, overlapping bool) {
	b.WriteString("Read {\n")
	writeKnob(b, "inputs", "0")
	writeKnob(b, "file", quote(path))
	writeKnob(b, "first", strconv.Itoa(first))
	writeKnob(b, "last", strconv.Itoa(last))
	writeKnob(b, "origfirst", strconv.Itoa(first))
	writeKnob(b, "origlast", strconv.Itoa(last))
	if overlapping {
		writeKnob(b, "on_error", "black")
	}
	writeKnob(b, "name", fmt.Sprintf("Read%d", index))
	b.WriteString("}\n")
}

func writeKnob(b *strings.Builder, name, value string) {
	b.WriteByte(' ')
	b.WriteString(name)
	b.WriteByte(' ')
	b.WriteString(value)
	b.WriteByte('\n')
}

// quote wraps value in double quotes when it holds characters the script
// parser treats specially.
func quote(value string) string {
	if value != "" && !strings.ContainsAny(value, " \t\"{}[]\\$;") {
		return value
	}
	replacer := strings.NewReplacer(`\`, `\\`, `"`, `\"`, `[`, `\[`, `$`, `\$`)
	return `"` + replacer.Replace(value) + `"`
}
