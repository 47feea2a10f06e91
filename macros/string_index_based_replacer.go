package macros

import (
	"strings"
	"sync"
)

const (
	macroPrefix = "["
	macroSuffix = "]"
	// templates are cached per URL; past this many new URLs are parsed on every call
	maxCachedTemplates = 10000
)

type stringIndexBasedReplacer struct {
	templates map[string]urlMetaTemplate
	sync.RWMutex
}

type urlMetaTemplate struct {
	startingIndices []int
	endingIndices   []int
}

// constructTemplate records where every [NAME] macro of url starts and ends.
// Bracketed text which is not a macro name, such as [a] or [], is not recorded.
func constructTemplate(url string) urlMetaTemplate {
	currentIndex := 0
	tmplt := urlMetaTemplate{
		startingIndices: []int{},
		endingIndices:   []int{},
	}
	for currentIndex < len(url) {
		startIndex := strings.Index(url[currentIndex:], macroPrefix)
		if startIndex == -1 {
			break
		}
		startIndex = startIndex + currentIndex
		endIndex := strings.Index(url[startIndex+1:], macroSuffix)
		if endIndex == -1 {
			break
		}
		endIndex = endIndex + startIndex + 1
		if !isMacroName(url[startIndex+1 : endIndex]) {
			// a later [ may open a real macro, e.g. [[ERRORCODE]
			currentIndex = startIndex + 1
			continue
		}
		tmplt.startingIndices = append(tmplt.startingIndices, startIndex)
		tmplt.endingIndices = append(tmplt.endingIndices, endIndex)
		currentIndex = endIndex + 1
	}
	return tmplt
}

func isMacroName(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		if !(c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_') {
			return false
		}
	}
	return true
}

func (s *stringIndexBasedReplacer) Replace(url string, macroProvider Provider) (string, error) {
	tmplt := s.getTemplate(url)
	if len(tmplt.startingIndices) == 0 {
		return url, nil
	}

	var result strings.Builder
	result.Grow(len(url))
	currentIndex := 0
	// iterate over macros startindex list to get position where value should be put
	// http://tracker.com/err?code=[ERRORCODE]&cb=[CACHEBUSTING]
	for i, index := range tmplt.startingIndices {
		macro := url[index+len(macroPrefix) : tmplt.endingIndices[i]]
		// copy prev part
		result.WriteString(url[currentIndex:index])
		result.WriteString(macroProvider.GetMacro(macro))
		currentIndex = tmplt.endingIndices[i] + len(macroSuffix)
	}
	result.WriteString(url[currentIndex:])
	return result.String(), nil
}

func (s *stringIndexBasedReplacer) getTemplate(url string) urlMetaTemplate {
	var (
		template urlMetaTemplate
		ok       bool
	)
	s.RLock()
	template, ok = s.templates[url]
	s.RUnlock()

	if !ok {
		template = constructTemplate(url)
		s.Lock()
		if len(s.templates) < maxCachedTemplates {
			s.templates[url] = template
		}
		s.Unlock()
	}
	return template
}
