package timeline

import (
	"fmt"

	"shotexport/internal/services"
)

// FindProject returns the project with the given name.
func FindProject(host Host, name string) (Project, error) {
	if host != nil {
		for _, project := range host.Projects() {
			if project.Name() == name {
				return project, nil
			}
		}
	}
	return nil, services.Wrap(services.ErrNotFound, "timeline", "find project",
		fmt.Sprintf("no project found with name %q", name), nil)
}

// FindSequence returns the sequence with the given name in project.
func FindSequence(project Project, name string) (Sequence, error) {
	for _, sequence := range project.Sequences() {
		if sequence.Name() == name {
			return sequence, nil
		}
	}
	return nil, services.Wrap(services.ErrNotFound, "timeline", "find sequence",
		fmt.Sprintf("no sequence found with name %q in project %q", name, project.Name()), nil)
}

// FindRow returns the video track with the given name in sequence.
func FindRow(sequence Sequence, name string) (Row, error) {
	for _, row := range sequence.Rows() {
		if row.Name() == name {
			return row, nil
		}
	}
	return nil, services.Wrap(services.ErrNotFound, "timeline", "find track",
		fmt.Sprintf("no track found with name %q in sequence %q", name, sequence.Name()), nil)
}

// Locate resolves project, sequence, and track names in one call.
func Locate(host Host, projectName, sequenceName, trackName string) (Project, Sequence, Row, error) {
	project, err := FindProject(host, projectName)
	if err != nil {
		return nil, nil, nil, err
	}
	sequence, err := FindSequence(project, sequenceName)
	if err != nil {
		return nil, nil, nil, err
	}
	row, err := FindRow(sequence, trackName)
	if err != nil {
		return nil, nil, nil, err
	}
	return project, sequence, row, nil
}
