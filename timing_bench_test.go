package clearurls

import (
	"fmt"
	"testing"
)

const benchProviders = 200

func benchRules(b *testing.B) *RuleSet {
	src := `{"providers": {`
	for i := 0; i < benchProviders; i++ {
		if i > 0 {
			src += ","
		}
		src += fmt.Sprintf(`"site%d": {"urlPattern": "^https?://(?:[a-z0-9-]+\\.)*?site%d\\.com", "rules": ["utm_[a-z]+", "sid%d"], "exceptions": ["/login"]}`, i, i, i)
	}
	src += `, "global": {"urlPattern": ".*", "rules": ["fbclid"]}}}`
	rs, err := Load([]byte(src))
	if err != nil {
		b.Fatal(err)
	}
	return rs
}

func benchmarkClean(b *testing.B, useIndex bool) {
	c := NewCleaner(benchRules(b), true)
	c.useIndex = useIndex
	in := "https://www.site150.com/page?utm_source=x&sid150=1&keep=2&fbclid=3"

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			if _, err := c.CleanString(in); err != nil {
				b.Fatal(err)
			}
		}
	})
}

func BenchmarkCleanIndexed(b *testing.B) {
	benchmarkClean(b, true)
}

func BenchmarkCleanScan(b *testing.B) {
	benchmarkClean(b, false)
}
