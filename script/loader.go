package script

import (
	"embed"
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

//go:embed demo_conversation.yaml demo_lecture.yaml
var demoFS embed.FS

// Mode selects which embedded demo script to play.
type Mode string

const (
	ModeConversation Mode = "conversation"
	ModeLecture      Mode = "lecture"
)

var validate = validator.New()

// Load reads and validates a script YAML file from disk.
func Load(path string) (*Script, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("script: open %q: %w", path, err)
	}
	defer f.Close()

	s, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("script: parse %q: %w", path, err)
	}
	return s, nil
}

// Demo loads one of the embedded demo scripts.
func Demo(mode Mode) (*Script, error) {
	name := "demo_conversation.yaml"
	if mode == ModeLecture {
		name = "demo_lecture.yaml"
	}
	f, err := demoFS.Open(name)
	if err != nil {
		return nil, fmt.Errorf("script: open embedded %q: %w", name, err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse decodes and validates script YAML. The reader is consumed entirely.
func Parse(r io.Reader) (*Script, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var s Script
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if err := validate.Struct(&s); err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}
	if err := checkStructure(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

// checkStructure enforces the authoring rules the struct tags cannot:
// unique utterance ids, resolvable speakers, at least one word per
// utterance, resume links pointing strictly backwards, and translations
// keyed by known utterance ids.
func checkStructure(s *Script) error {
	speakerIDs := make(map[string]bool, len(s.Speakers))
	for _, sp := range s.Speakers {
		if speakerIDs[sp.ID] {
			return fmt.Errorf("duplicate speaker id %q", sp.ID)
		}
		speakerIDs[sp.ID] = true
	}

	seen := make(map[string]bool, len(s.History)+len(s.Utterances))
	ordered := append(append([]Utterance{}, s.History...), s.Utterances...)
	for i, u := range ordered {
		if seen[u.ID] {
			return fmt.Errorf("duplicate utterance id %q", u.ID)
		}
		seen[u.ID] = true

		if !speakerIDs[u.SpeakerID] {
			return fmt.Errorf("utterance %q: unknown speaker %q", u.ID, u.SpeakerID)
		}
		if len(u.Words()) == 0 {
			return fmt.Errorf("utterance %q: text must contain at least one word", u.ID)
		}
		if u.ResumesThreadID != "" {
			if u.ResumesThreadID == u.ID {
				return fmt.Errorf("utterance %q: resumes itself", u.ID)
			}
			if !resumesEarlier(ordered[:i], u.ResumesThreadID) {
				return fmt.Errorf("utterance %q: resumes %q which does not appear earlier", u.ID, u.ResumesThreadID)
			}
		}
	}

	for id := range s.Translations {
		if !seen[id] {
			return fmt.Errorf("translation keyed by unknown utterance id %q", id)
		}
	}
	return nil
}

func resumesEarlier(earlier []Utterance, id string) bool {
	for _, u := range earlier {
		if u.ID == id {
			return true
		}
	}
	return false
}
