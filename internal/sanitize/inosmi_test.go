package sanitize

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func loadFixture(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", "inosmi_article.html"))
	if err != nil {
		t.Fatalf("failed to read fixture: %v", err)
	}
	return string(data)
}

// TestInosmiSanitizerHTML tests cleaned HTML output.
func TestInosmiSanitizerHTML(t *testing.T) {
	t.Parallel()

	s := NewInosmiSanitizer()
	out, err := s.Sanitize(loadFixture(t), false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.HasPrefix(out, "<article>") {
		t.Errorf("expected output to start with <article>, got %q", out[:min(len(out), 40)])
	}
	if !strings.HasSuffix(out, "</article>") {
		t.Errorf("expected output to end with </article>")
	}

	mustContain := []string{"<h1>", `<img src="/img/photo.jpg"/>`, `<a href="https://inosmi.ru/source.html">`}
	for _, want := range mustContain {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got %q", want, out)
		}
	}

	mustNotContain := []string{"<script", "<time", "<div", "<p>", "<span", "<header", "<footer", "class=", "alt=", "target="}
	for _, unwanted := range mustNotContain {
		if strings.Contains(out, unwanted) {
			t.Errorf("expected output not to contain %q, got %q", unwanted, out)
		}
	}
}

// TestInosmiSanitizerPlaintext tests plain text output.
func TestInosmiSanitizerPlaintext(t *testing.T) {
	t.Parallel()

	s := NewInosmiSanitizer()
	out, err := s.Sanitize(loadFixture(t), true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if strings.ContainsAny(out, "<>") {
		t.Errorf("expected no tags in plain text, got %q", out)
	}
	for _, want := range []string{"Аттракцион невиданной щедрости", "Во-первых, он хочет, чтобы все видели.", "источнике", "Это не так."} {
		if !strings.Contains(out, want) {
			t.Errorf("expected plain text to contain %q, got %q", want, out)
		}
	}
	for _, unwanted := range []string{"trackArticle", "17.01.2024", "ИноСМИ"} {
		if strings.Contains(out, unwanted) {
			t.Errorf("expected plain text not to contain %q", unwanted)
		}
	}
	if !strings.HasPrefix(out, "Аттракцион") {
		t.Errorf("expected plain text to start with the headline, got %q", out)
	}
}

// TestInosmiSanitizerArticleNotFound tests pages without the article element.
func TestInosmiSanitizerArticleNotFound(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name  string
		input string
	}{
		{"div instead of article", `<div class="article">текст</div>`},
		{"article without class", `<article>текст</article>`},
		{"empty page", ``},
	}

	s := NewInosmiSanitizer()
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			for _, plaintext := range []bool{true, false} {
				_, err := s.Sanitize(tc.input, plaintext)
				if !errors.Is(err, ErrArticleNotFound) {
					t.Errorf("expected ErrArticleNotFound, got %v", err)
				}
			}
		})
	}
}

// TestInosmiSanitizerMinimalArticle tests the smallest accepted article.
func TestInosmiSanitizerMinimalArticle(t *testing.T) {
	t.Parallel()

	s := NewInosmiSanitizer()
	out, err := s.Sanitize(`<article class="article">аттракцион привет человек</article>`, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "аттракцион привет человек" {
		t.Errorf("expected article text, got %q", out)
	}
}

// TestWithArticleSelector tests a custom article selector.
func TestWithArticleSelector(t *testing.T) {
	t.Parallel()

	s := NewInosmiSanitizer(WithArticleSelector("div.story"))
	out, err := s.Sanitize(`<div class="story" id="x"><p>Первый</p><p>Второй</p></div>`, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "<article>ПервыйВторой</article>" {
		t.Errorf("unexpected output %q", out)
	}

	text, err := s.Sanitize(`<div class="story"><p>Первый</p><p>Второй</p></div>`, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "Первый\nВторой" {
		t.Errorf("expected one line per paragraph, got %q", text)
	}
}

// TestFunc tests the function adapter.
func TestFunc(t *testing.T) {
	t.Parallel()

	var s Sanitizer = Func(func(string, bool) (string, error) { return "", ErrArticleNotFound })
	if _, err := s.Sanitize("", true); !errors.Is(err, ErrArticleNotFound) {
		t.Errorf("expected ErrArticleNotFound, got %v", err)
	}
}
