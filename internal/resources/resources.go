// Package resources serves external study links for recommendation output.
// Links come from plain-text files maintained by teachers, one subject per
// section with its URLs listed underneath.
package resources

import (
	"bufio"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"unicode"

	"github.com/SAP-F-2025/learning-gap-service/internal/models"
)

// subjectAliases folds topic names onto the subjects used in link files.
// Math sub-topics all map to the general maths section.
var subjectAliases = map[string]string{
	"maths":          "maths",
	"math":           "maths",
	"arithmetic":     "maths",
	"fractions":      "maths",
	"algebra":        "maths",
	"geometry":       "maths",
	"data analysis":  "maths",
	"statistics":     "maths",
	"sst":            "social science",
	"social studies": "social science",
	"cs":             "computer science",
	"programming":    "computer science",
}

// Resolver loads link files once at startup and answers topic lookups.
// Implements services.ResourceResolver.
type Resolver struct {
	websites map[string][]string
	videos   map[string][]string
	logger   *slog.Logger
}

// NewResolver parses the website and video link files. A missing or
// unreadable file just yields an empty section; resolution degrades to
// whatever loaded.
func NewResolver(websiteFile, videoFile string, logger *slog.Logger) *Resolver {
	return &Resolver{
		websites: loadLinkFile(websiteFile, logger),
		videos:   loadLinkFile(videoFile, logger),
		logger:   logger,
	}
}

// ResolveResources returns website and video links for a topic. Video links
// become YouTube searches scoped to the class level when one is known.
func (r *Resolver) ResolveResources(topic string, classLevel int) models.ResourceLinks {
	links := models.ResourceLinks{}
	if websites := r.websiteLinks(topic); len(websites) > 0 {
		links["Websites"] = websites
	}
	if videos := r.videoLinks(topic, classLevel); len(videos) > 0 {
		links["Videos"] = videos
	}
	return links
}

func (r *Resolver) websiteLinks(topic string) []string {
	return lookupSubject(r.websites, normalizeSubject(topic))
}

// videoLinks turns channel links into search URLs combining topic, class
// and channel so results land on age-appropriate material.
func (r *Resolver) videoLinks(topic string, classLevel int) []string {
	base := lookupSubject(r.videos, normalizeSubject(topic))
	if len(base) == 0 {
		return nil
	}

	out := make([]string, 0, len(base))
	for _, link := range base {
		channel := channelName(link)

		var query string
		switch {
		case classLevel > 0 && channel != "":
			query = fmt.Sprintf("%s class %d %s", topic, classLevel, channel)
		case classLevel > 0:
			query = fmt.Sprintf("%s class %d", topic, classLevel)
		case channel != "":
			query = fmt.Sprintf("%s %s", topic, channel)
		default:
			query = topic
		}
		out = append(out, "https://www.youtube.com/results?search_query="+url.QueryEscape(query))
	}
	return out
}

func lookupSubject(sections map[string][]string, subject string) []string {
	if links, ok := sections[subject]; ok {
		return links
	}
	// Partial match covers entries like "science" vs "general science".
	for name, links := range sections {
		if strings.Contains(name, subject) || strings.Contains(subject, name) {
			return links
		}
	}
	return nil
}

func normalizeSubject(topic string) string {
	normalized := strings.ToLower(strings.TrimSpace(topic))
	normalized = strings.ReplaceAll(normalized, "scirnce", "science")
	normalized = strings.ReplaceAll(normalized, "sience", "science")
	if alias, ok := subjectAliases[normalized]; ok {
		return alias
	}
	return normalized
}

func channelName(link string) string {
	if i := strings.Index(link, "@"); i >= 0 {
		rest := link[i+1:]
		if j := strings.Index(rest, "/"); j >= 0 {
			rest = rest[:j]
		}
		return rest
	}
	if i := strings.Index(link, "youtube.com/c/"); i >= 0 {
		rest := link[i+len("youtube.com/c/"):]
		if j := strings.Index(rest, "/"); j >= 0 {
			rest = rest[:j]
		}
		return rest
	}
	return ""
}

// loadLinkFile parses a teacher-maintained link file. Sections start with
// "subject - url" lines; subsequent URLs may be bare or numbered
// ("2. https://...").
func loadLinkFile(path string, logger *slog.Logger) map[string][]string {
	sections := map[string][]string{}
	if path == "" {
		return sections
	}

	f, err := os.Open(path)
	if err != nil {
		logger.Warn("Resource link file unavailable", "path", path, "error", err)
		return sections
	}
	defer f.Close()

	var current string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.Join(strings.Fields(scanner.Text()), " ")
		if line == "" {
			continue
		}

		if subject, rest, ok := splitSubjectLine(line); ok {
			current = subject
			if link := extractURL(rest); link != "" {
				sections[current] = append(sections[current], link)
			}
			continue
		}
		if current == "" {
			continue
		}
		if link := extractURL(line); link != "" {
			sections[current] = append(sections[current], link)
		}
	}
	if err := scanner.Err(); err != nil {
		logger.Warn("Failed to read resource link file", "path", path, "error", err)
	}
	return sections
}

// splitSubjectLine detects "subject - url" headers: the left side of the
// first dash must be purely alphabetic (spaces allowed).
func splitSubjectLine(line string) (subject, rest string, ok bool) {
	i := strings.Index(line, "-")
	if i < 0 {
		return "", "", false
	}
	left := strings.TrimSpace(line[:i])
	if left == "" || unicode.IsDigit(rune(left[0])) {
		return "", "", false
	}
	for _, r := range left {
		if !unicode.IsLetter(r) && r != ' ' {
			return "", "", false
		}
	}
	return strings.ToLower(left), strings.TrimSpace(line[i+1:]), true
}

// extractURL pulls an http(s) URL out of a line that may carry a list
// number prefix ("2. https://...").
func extractURL(line string) string {
	if line == "" {
		return ""
	}
	if strings.HasPrefix(line, "http") {
		return line
	}
	if unicode.IsDigit(rune(line[0])) {
		if _, rest, ok := strings.Cut(line, "."); ok {
			rest = strings.TrimSpace(rest)
			if strings.HasPrefix(rest, "http") {
				return rest
			}
		}
	}
	return ""
}
