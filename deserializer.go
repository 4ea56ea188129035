package clearurls

import (
	"errors"
	"fmt"
	"os"

	"github.com/getlantern/golog"
	"github.com/getlantern/mtime"
	"gopkg.in/yaml.v3"
)

var (
	errMissingURLPattern = errors.New("missing urlPattern")
	errEmptySource       = errors.New("empty rule source")
)

type deserializer struct {
	log golog.Logger
}

func newDeserializer() *deserializer {
	return &deserializer{
		log: golog.LoggerFor("clearurls-deserializer"),
	}
}

// Load builds a RuleSet from a JSON or YAML rule source. The source is either
// a mapping of provider names to providers or a document with such a mapping
// under "providers". Provider order is kept. Any pattern that doesn't compile
// fails the whole load with a *RuleLoadError.
func Load(data []byte) (*RuleSet, error) {
	return newDeserializer().newRuleSet(data)
}

// LoadFile is Load for a file on disk.
func LoadFile(path string) (*RuleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules %v: %w", path, err)
	}
	return Load(data)
}

func (d *deserializer) newRuleSet(data []byte) (*RuleSet, error) {
	start := mtime.Now()
	rs := &RuleSet{}
	err := eachProvider(data, func(name string, src *ProviderSource, err error) error {
		if err != nil {
			return err
		}
		p, err := newProvider(name, src)
		if err != nil {
			return err
		}
		rs.providers = append(rs.providers, p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	d.log.Debugf("Loaded %v providers in %v", len(rs.providers), mtime.Now().Sub(start))
	return rs, nil
}

// eachProvider decodes the providers of a rule source in order and hands each
// one to fn along with its decoding error, if any. It stops at the first
// error fn returns.
func eachProvider(data []byte, fn func(name string, src *ProviderSource, err error) error) error {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return &RuleLoadError{Err: fmt.Errorf("parse rule source: %w", err)}
	}
	providers, err := providersNode(&doc)
	if err != nil {
		return err
	}
	for i := 0; i+1 < len(providers.Content); i += 2 {
		name := providers.Content[i].Value
		var src ProviderSource
		var decodeErr error
		if err := providers.Content[i+1].Decode(&src); err != nil {
			decodeErr = &RuleLoadError{Provider: name, Err: err}
		}
		if err := fn(name, &src, decodeErr); err != nil {
			return err
		}
	}
	return nil
}

func providersNode(doc *yaml.Node) (*yaml.Node, error) {
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, &RuleLoadError{Err: errEmptySource}
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, &RuleLoadError{Err: fmt.Errorf("rule source must be a mapping, line %d", root.Line)}
	}
	for i := 0; i+1 < len(root.Content); i += 2 {
		if root.Content[i].Value == "providers" && root.Content[i+1].Kind == yaml.MappingNode {
			return root.Content[i+1], nil
		}
	}
	return root, nil
}
