package normalize

import (
	"fmt"
	"strings"

	"github.com/jonathan/cv-extractor/internal/types"
)

// Key synonyms observed across model families. Applied uniformly to every
// parsed response rather than patched per call site.
var (
	nameKeys       = []string{"name", "fullname", "full_name"}
	emailKeys      = []string{"email", "email_address"}
	phoneKeys      = []string{"phone", "phone_number", "phone_no", "mobile"}
	educationKeys  = []string{"education", "educations", "education_history"}
	experienceKeys = []string{"experience", "work_experience", "employment", "work_history"}
	skillKeys      = []string{"skills", "skill_set"}
	certKeys       = []string{"certifications", "certification", "certificates"}
	languageKeys   = []string{"languages", "language"}
)

// coerceRecord maps a parsed response object onto a CandidateRecord,
// defaulting every missing or null field to its schema default. Nothing is
// inferred: absent fields stay empty.
func coerceRecord(parsed map[string]any, record *types.CandidateRecord) {
	// Models sometimes nest contact fields under a personal_info object and
	// sometimes emit them at the top level. Merge the nested object first so
	// top-level keys win.
	flat := make(map[string]any, len(parsed))
	if info, ok := parsed["personal_info"].(map[string]any); ok {
		for k, v := range info {
			flat[strings.ToLower(k)] = v
		}
	}
	for k, v := range parsed {
		flat[strings.ToLower(k)] = v
	}

	record.Name = firstString(flat, nameKeys)
	record.Email = firstString(flat, emailKeys)
	record.Phone = firstString(flat, phoneKeys)

	// Loose email validation: a value without "@" is noise, not an address.
	if record.Email != "" && !strings.Contains(record.Email, "@") {
		record.Email = ""
	}

	record.Skills = DedupeSkills(firstStringList(flat, skillKeys))
	record.Certifications = firstStringList(flat, certKeys)
	record.Languages = firstStringList(flat, languageKeys)
	record.Education = coerceEducation(firstList(flat, educationKeys))
	record.Experience = coerceExperience(firstList(flat, experienceKeys))
}

// DedupeSkills removes case-insensitive duplicates while preserving the
// first-seen casing and insertion order.
func DedupeSkills(skills []string) []string {
	seen := make(map[string]bool, len(skills))
	result := make([]string, 0, len(skills))
	for _, skill := range skills {
		key := strings.ToLower(strings.TrimSpace(skill))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		result = append(result, strings.TrimSpace(skill))
	}
	return result
}

func coerceEducation(items []any) []types.EducationEntry {
	entries := make([]types.EducationEntry, 0, len(items))
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			// Some models flatten education to plain strings
			if s := asString(item); s != "" {
				entries = append(entries, types.EducationEntry{Degree: s})
			}
			continue
		}
		lowered := lowerKeys(obj)
		entries = append(entries, types.EducationEntry{
			Institution: firstString(lowered, []string{"institution", "school", "university"}),
			Degree:      firstString(lowered, []string{"degree", "qualification", "title"}),
			Period:      firstString(lowered, []string{"period", "year", "years", "dates", "duration"}),
			Details:     firstString(lowered, []string{"details", "description", "notes"}),
		})
	}
	return entries
}

func coerceExperience(items []any) []types.ExperienceEntry {
	entries := make([]types.ExperienceEntry, 0, len(items))
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			if s := asString(item); s != "" {
				entries = append(entries, types.ExperienceEntry{Title: s, Responsibilities: []string{}})
			}
			continue
		}
		lowered := lowerKeys(obj)
		entry := types.ExperienceEntry{
			Title:        firstString(lowered, []string{"title", "job_title", "position", "role"}),
			Organization: firstString(lowered, []string{"organization", "company", "employer"}),
			Period:       firstString(lowered, []string{"period", "duration", "dates", "year", "years"}),
		}

		// Responsibilities arrive as either a list or a single description string
		for _, key := range []string{"responsibilities", "description", "duties", "achievements"} {
			if v, ok := lowered[key]; ok && v != nil {
				if list := asStringList(v); len(list) > 0 {
					entry.Responsibilities = list
					break
				}
				if s := asString(v); s != "" {
					entry.Responsibilities = []string{s}
					break
				}
			}
		}
		if entry.Responsibilities == nil {
			entry.Responsibilities = []string{}
		}
		entries = append(entries, entry)
	}
	return entries
}

func lowerKeys(obj map[string]any) map[string]any {
	lowered := make(map[string]any, len(obj))
	for k, v := range obj {
		lowered[strings.ToLower(k)] = v
	}
	return lowered
}

func firstString(obj map[string]any, keys []string) string {
	for _, key := range keys {
		if v, ok := obj[key]; ok {
			if s := asString(v); s != "" {
				return s
			}
		}
	}
	return ""
}

func firstList(obj map[string]any, keys []string) []any {
	for _, key := range keys {
		if v, ok := obj[key]; ok {
			if list, ok := v.([]any); ok {
				return list
			}
		}
	}
	return nil
}

func firstStringList(obj map[string]any, keys []string) []string {
	for _, key := range keys {
		if v, ok := obj[key]; ok {
			if list := asStringList(v); list != nil {
				return list
			}
		}
	}
	return []string{}
}

// asString renders scalars to strings; nulls, objects and lists yield "".
func asString(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		// JSON numbers land as float64; years etc. should keep integer form
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%g", t)
	case bool:
		return fmt.Sprintf("%t", t)
	default:
		return ""
	}
}

func asStringList(v any) []string {
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	result := make([]string, 0, len(list))
	for _, item := range list {
		if s := asString(item); s != "" {
			result = append(result, s)
		}
	}
	return result
}
