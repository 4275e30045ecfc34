package chi

import (
	"encoding/json"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Script describes the stream the server plays for each generation
// request.
type Script struct {
	// Frames are written in order.
	Frames []ScriptFrame `yaml:"frames"`
	// Delay is the pause before each frame.
	Delay time.Duration `yaml:"delay"`
	// TruncateAfter ends the response after that many frames, followed by
	// half of the next frame. Zero plays every frame.
	TruncateAfter int `yaml:"truncate_after"`
	// Status, when set, rejects the request with that HTTP status.
	Status int `yaml:"status"`
}

// ScriptFrame is one event frame. Data is written verbatim, so scripts
// can carry malformed payloads.
type ScriptFrame struct {
	Event string `yaml:"event"`
	Data  string `yaml:"data"`
}

// ParseScript decodes a YAML script.
func ParseScript(data []byte) (Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Script{}, fmt.Errorf("chi: parse script: %w", err)
	}
	if s.TruncateAfter < 0 {
		return Script{}, fmt.Errorf("chi: parse script: negative truncate_after")
	}
	return s, nil
}

// DemoScript plays a successful generation of a course with the given
// number of units.
func DemoScript(courseID, units int, delay time.Duration) Script {
	s := Script{Delay: delay}
	s.add("course_created", map[string]any{"courseId": courseID, "totalUnits": units})
	for i := 1; i <= units; i++ {
		s.add("unit_generating", map[string]any{"unitNumber": i})
		s.add("unit_generated", map[string]any{
			"unitNumber": i,
			"unit": map[string]any{
				"title":       fmt.Sprintf("Unit %d", i),
				"description": fmt.Sprintf("Practice set **%d** with *new* vocabulary.", i),
				"lessons": []map[string]any{
					{"title": "Vocabulary"},
					{"title": "Listening"},
				},
			},
			"progress": fmt.Sprintf("%d/%d", i, units),
		})
	}
	s.add("course_complete", map[string]any{"courseId": courseID})
	return s
}

func (s *Script) add(event string, payload any) {
	data, _ := json.Marshal(payload)
	s.Frames = append(s.Frames, ScriptFrame{Event: event, Data: string(data)})
}
