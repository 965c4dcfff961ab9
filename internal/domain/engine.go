package domain

import (
	"fmt"
	"sort"

	m "github.com/repaint-dev/repaint/internal/model"
)

// SynthesizeTransformations turns strict and extension resolutions into
// concrete edits. Preserved and unmapped resolutions produce nothing.
// Synthesis is unconditional: availability is advisory metadata the validator
// and the report surface, not a gate on emitting the edit.
func SynthesizeTransformations(resolutions []Resolution) []m.Transformation {
	var transformations []m.Transformation

	for _, res := range resolutions {
		handle := HandleName(res.Ref.Node)

		switch res.Kind {
		case m.ResolutionStrict:
			transformations = append(transformations, m.Transformation{
				Offset:      res.Ref.Offset,
				Length:      res.Ref.Length,
				OldText:     res.Ref.Text,
				NewText:     fmt.Sprintf("Theme.of(%s).colorScheme.%s", handle, res.Target),
				Kind:        m.TransformStrict,
				Description: fmt.Sprintf("%s to colorScheme.%s", res.Ref.Name, res.Target),
			})
		case m.ResolutionExtension:
			transformations = append(transformations, m.Transformation{
				Offset:      res.Ref.Offset,
				Length:      res.Ref.Length,
				OldText:     res.Ref.Text,
				NewText:     fmt.Sprintf("Theme.of(%s).extension<%s>()!.%s", handle, res.Group, res.Target),
				Kind:        m.TransformExtension,
				Description: fmt.Sprintf("%s to %s.%s", res.Ref.Name, res.Group, res.Target),
			})
		case m.ResolutionPreserved, m.ResolutionUnmapped:
		}
	}

	return transformations
}

// ApplyTransformations splices the edits into original in strictly descending
// offset order so earlier replacements never shift later offsets. The input
// set is validated first: overlapping ranges or a range whose current bytes
// no longer match OldText reject the whole file.
func ApplyTransformations(original []byte, transformations []m.Transformation) ([]byte, error) {
	if len(transformations) == 0 {
		return original, nil
	}

	sorted := make([]m.Transformation, len(transformations))
	copy(sorted, transformations)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Offset > sorted[j].Offset
	})

	for i := 0; i < len(sorted)-1; i++ {
		if sorted[i].Offset < sorted[i+1].End() {
			return nil, fmt.Errorf(
				"overlapping transformations at offsets %d and %d",
				sorted[i+1].Offset, sorted[i].Offset,
			)
		}
	}

	result := original

	for _, t := range sorted {
		if t.Offset < 0 || t.End() > len(result) {
			return nil, fmt.Errorf("transformation range [%d, %d) exceeds file size %d", t.Offset, t.End(), len(result))
		}

		if actual := string(result[t.Offset:t.End()]); actual != t.OldText {
			return nil, fmt.Errorf(
				"source drift at offset %d: expected %q, found %q",
				t.Offset, t.OldText, actual,
			)
		}

		spliced := make([]byte, 0, len(result)-t.Length+len(t.NewText))
		spliced = append(spliced, result[:t.Offset]...)
		spliced = append(spliced, t.NewText...)
		spliced = append(spliced, result[t.End():]...)
		result = spliced
	}

	return result, nil
}
