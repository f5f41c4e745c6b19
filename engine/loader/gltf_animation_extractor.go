package loader

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-anim/engine/anim/evaluator"
)

// gltfAnimationExtractorImpl is the implementation of the gltfAnimationExtractor interface.
type gltfAnimationExtractorImpl struct {
	parser gltfParser
}

// gltfAnimationExtractor converts glTF animations into evaluator tracks. Channels are bound
// by path "<node name>/<property>", so tracks play on any hierarchy with matching node names.
type gltfAnimationExtractor interface {
	// ExtractTrack extracts a single animation by index.
	//
	// Parameters:
	//   - animIndex: the index of the animation in the document
	//
	// Returns:
	//   - *evaluator.Track: the extracted track
	//   - error: error if extraction fails
	ExtractTrack(animIndex int) (*evaluator.Track, error)

	// ExtractAllTracks extracts every animation from the document.
	//
	// Returns:
	//   - []*evaluator.Track: the tracks in document order
	//   - error: error if extraction fails
	ExtractAllTracks() ([]*evaluator.Track, error)
}

var _ gltfAnimationExtractor = &gltfAnimationExtractorImpl{}

// newGLTFAnimationExtractor creates a new animation extractor for a parsed document.
func newGLTFAnimationExtractor(parser gltfParser) gltfAnimationExtractor {
	return &gltfAnimationExtractorImpl{parser: parser}
}

func (e *gltfAnimationExtractorImpl) ExtractTrack(animIndex int) (*evaluator.Track, error) {
	doc := e.parser.Document()
	if doc == nil {
		return nil, errNoDocument
	}
	if animIndex < 0 || animIndex >= len(doc.Animations) {
		return nil, fmt.Errorf("animation index %d out of range", animIndex)
	}

	anim := &doc.Animations[animIndex]
	name := anim.Name
	if name == "" {
		name = fmt.Sprintf("animation_%d", animIndex)
	}

	var (
		inputs   []*evaluator.Data
		outputs  []*evaluator.Data
		curves   []*evaluator.Curve
		duration float32
	)
	// Samplers sharing a time accessor share one input and therefore one cache.
	inputSlot := make(map[int]int)
	outputSlot := make(map[int]int)
	// channels sharing a sampler become one curve with several paths
	samplerPaths := make(map[int][]string)
	var samplerOrder []int

	for i := range anim.Channels {
		ch := &anim.Channels[i]
		if ch.Target.Node == nil || *ch.Target.Node < 0 || *ch.Target.Node >= len(doc.Nodes) {
			continue
		}
		property, ok := gltfTargetProperty(ch.Target.Path)
		if !ok {
			continue
		}
		if ch.Sampler < 0 || ch.Sampler >= len(anim.Samplers) {
			return nil, fmt.Errorf("animation %q channel %d: invalid sampler index %d", name, i, ch.Sampler)
		}

		if _, seen := samplerPaths[ch.Sampler]; !seen {
			samplerOrder = append(samplerOrder, ch.Sampler)
		}
		path := evaluator.JoinPath(gltfNodeName(doc, *ch.Target.Node), property)
		samplerPaths[ch.Sampler] = append(samplerPaths[ch.Sampler], path)
	}

	for _, si := range samplerOrder {
		sampler := &anim.Samplers[si]
		interp, err := gltfInterpolation(sampler.Interpolation)
		if err != nil {
			return nil, fmt.Errorf("animation %q sampler %d: %w", name, si, err)
		}

		in, ok := inputSlot[sampler.Input]
		if !ok {
			times, err := e.parser.ReadScalarAccessor(sampler.Input)
			if err != nil {
				return nil, fmt.Errorf("animation %q sampler %d: failed to read timestamps: %w", name, si, err)
			}
			data, err := evaluator.NewData(1, times)
			if err != nil {
				return nil, fmt.Errorf("animation %q sampler %d: %w", name, si, err)
			}
			if len(times) > 0 && times[len(times)-1] > duration {
				duration = times[len(times)-1]
			}
			in = len(inputs)
			inputs = append(inputs, data)
			inputSlot[sampler.Input] = in
		}
		keys := inputs[in].Len()

		out, ok := outputSlot[sampler.Output]
		if !ok {
			values, components, err := e.parser.ReadFloatAccessor(sampler.Output)
			if err != nil {
				return nil, fmt.Errorf("animation %q sampler %d: failed to read values: %w", name, si, err)
			}
			// Morph weights are stored as scalars: one value per target per key.
			if components == 1 && keys > 0 {
				perKey := keys
				if interp == evaluator.InterpolationCubic {
					perKey *= 3
				}
				if len(values)%perKey == 0 && len(values) > 0 {
					components = len(values) / perKey
				}
			}
			data, err := evaluator.NewData(components, values)
			if err != nil {
				return nil, fmt.Errorf("animation %q sampler %d: %w", name, si, err)
			}
			out = len(outputs)
			outputs = append(outputs, data)
			outputSlot[sampler.Output] = out
		}

		curve := evaluator.NewCurve(samplerPaths[si], in, out, interp)
		curves = append(curves, curve)
	}

	track, err := evaluator.NewTrack(name, duration, inputs, outputs, curves, nil)
	if err != nil {
		return nil, fmt.Errorf("animation %q: %w", name, err)
	}
	return track, nil
}

func (e *gltfAnimationExtractorImpl) ExtractAllTracks() ([]*evaluator.Track, error) {
	doc := e.parser.Document()
	if doc == nil {
		return nil, errNoDocument
	}

	tracks := make([]*evaluator.Track, 0, len(doc.Animations))
	for i := range doc.Animations {
		track, err := e.ExtractTrack(i)
		if err != nil {
			return nil, err
		}
		tracks = append(tracks, track)
	}
	return tracks, nil
}

func gltfTargetProperty(path string) (string, bool) {
	switch path {
	case gltfAnimPathTranslation:
		return evaluator.PropertyLocalPosition, true
	case gltfAnimPathRotation:
		return evaluator.PropertyLocalRotation, true
	case gltfAnimPathScale:
		return evaluator.PropertyLocalScale, true
	case gltfAnimPathWeights:
		return evaluator.PropertyWeights, true
	default:
		return "", false
	}
}

func gltfInterpolation(mode string) (evaluator.Interpolation, error) {
	switch mode {
	case "", gltfAnimInterpolationLinear:
		return evaluator.InterpolationLinear, nil
	case gltfAnimInterpolationStep:
		return evaluator.InterpolationStep, nil
	case gltfAnimInterpolationCubicSpline:
		return evaluator.InterpolationCubic, nil
	default:
		return 0, fmt.Errorf("unknown interpolation %q", mode)
	}
}

// gltfNodeName returns the node's name, or "node_<index>" for unnamed nodes.
func gltfNodeName(doc *gltfDocument, index int) string {
	if name := doc.Nodes[index].Name; name != "" {
		return name
	}
	return fmt.Sprintf("node_%d", index)
}
