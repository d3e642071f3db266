package detect

import (
	"bytes"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/driftdetect/deadwood/pkg/models"
)

// UnusedIntentExtra reports Intent extras that are put but never retrieved,
// tracked by literal string key across the whole program.
type UnusedIntentExtra struct{}

// Code implements Detector.
func (UnusedIntentExtra) Code() models.IssueCode { return models.CodeUnusedIntentExtra }

var (
	putExtraRe = regexp.MustCompile(`putExtra\s*\(\s*"([^"]+)"`)
	getExtraRe = regexp.MustCompile(`get(?:String|Int|Long|Float|Double|Boolean|Char|Byte|Short|Serializable|Parcelable|Bundle|CharSequence)?Extras?\s*\(\s*"([^"]+)"`)
	hasExtraRe = regexp.MustCompile(`hasExtra\s*\(\s*"([^"]+)"`)
)

// systemExtras are read by external apps, never by the analyzed code.
var systemExtras = map[string]bool{
	"android.provider.extra.APP_PACKAGE":      true,
	"android.provider.extra.CHANNEL_ID":       true,
	"android.provider.extra.CHANNEL_GROUP_ID": true,
	"android.provider.extra.CONVERSATION_ID":  true,
	"app_package":                             true,
	"app_uid":                                 true,
}

type extraSite struct {
	file string
	line int
	key  string
}

// Detect implements Detector.
func (UnusedIntentExtra) Detect(ctx *Context) []models.Finding {
	puts := make(map[string][]extraSite)
	gets := make(map[string]bool)

	for _, path := range ctx.SourceFiles {
		if strings.Contains(path, "/test/") || strings.Contains(path, "/androidTest/") {
			continue
		}
		data := ctx.Source(path)
		if data == nil {
			continue
		}
		for lineNo, line := range bytes.Split(data, []byte{'\n'}) {
			for _, m := range putExtraRe.FindAllSubmatch(line, -1) {
				key := string(m[1])
				puts[key] = append(puts[key], extraSite{file: path, line: lineNo + 1, key: key})
			}
			for _, m := range getExtraRe.FindAllSubmatch(line, -1) {
				gets[string(m[1])] = true
			}
			for _, m := range hasExtraRe.FindAllSubmatch(line, -1) {
				gets[string(m[1])] = true
			}
		}
	}

	keys := make([]string, 0, len(puts))
	for key := range puts {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var findings []models.Finding
	for _, key := range keys {
		if gets[key] || systemExtras[key] || strings.HasPrefix(key, "android.") {
			continue
		}
		site := puts[key][0]
		findings = append(findings, models.Finding{
			Code:       models.CodeUnusedIntentExtra,
			Severity:   models.SeverityWarning,
			Confidence: models.ConfidenceMedium,
			Message:    fmt.Sprintf("Intent extra \"%s\" is put but never retrieved", key),
			File:       site.file,
			Line:       site.line,
			Column:     1,
			Name:       key,
			FQN:        key,
			Kind:       "intent extra",
		})
	}
	return findings
}
