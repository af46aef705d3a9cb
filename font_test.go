package debugterm

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gomono"
)

var basicFont = FontDescriptor{Typeface: BasicTypeface, Size: 13}

func TestFontCacheSharesEntries(t *testing.T) {
	cache := NewFontCache()

	a, err := cache.Get(FontDescriptor{Typeface: "GoMono", Size: 12})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := cache.Get(FontDescriptor{Typeface: "GoMono", Size: 12})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if a.Face() != b.Face() {
		t.Error("expected equal descriptors to share one face")
	}
	if cache.Len() != 1 {
		t.Errorf("expected 1 cache entry, got %d", cache.Len())
	}

	d := a.Descriptor()
	if cache.Users(d) != 2 {
		t.Errorf("expected 2 users, got %d", cache.Users(d))
	}

	a.Release()
	if cache.Users(d) != 1 {
		t.Errorf("expected 1 user after first release, got %d", cache.Users(d))
	}
	if b.Face() == nil {
		t.Error("expected face to stay valid while a handle is live")
	}

	b.Release()
	if cache.Users(d) != 0 {
		t.Errorf("expected 0 users after both releases, got %d", cache.Users(d))
	}
}

func TestFontCacheDistinctDescriptors(t *testing.T) {
	cache := NewFontCache()

	a, _ := cache.Get(FontDescriptor{Typeface: "GoMono", Size: 12})
	b, _ := cache.Get(FontDescriptor{Typeface: "GoMono", Size: 20})
	c, _ := cache.Get(FontDescriptor{Typeface: "GoMono", Size: 12, Bold: true})
	defer a.Release()
	defer b.Release()
	defer c.Release()

	if cache.Len() != 3 {
		t.Errorf("expected 3 entries, got %d", cache.Len())
	}
	if a.Face() == b.Face() || a.Face() == c.Face() {
		t.Error("expected distinct faces for distinct descriptors")
	}
	if b.GlyphDims().Height <= a.GlyphDims().Height {
		t.Errorf("expected larger cells for larger text, got %v and %v", a.GlyphDims(), b.GlyphDims())
	}
}

func TestFontHandleCloneAndRelease(t *testing.T) {
	cache := NewFontCache()
	h, err := cache.Get(basicFont)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	clone := h.Clone()
	if cache.Users(basicFont) != 2 {
		t.Errorf("expected 2 users after clone, got %d", cache.Users(basicFont))
	}

	h.Release()
	h.Release() // ignored
	if cache.Users(basicFont) != 1 {
		t.Errorf("expected double release to count once, got %d users", cache.Users(basicFont))
	}

	clone.Release()
	if cache.Users(basicFont) != 0 {
		t.Errorf("expected 0 users, got %d", cache.Users(basicFont))
	}

	var nilHandle *FontHandle
	nilHandle.Release()
}

func TestFontHandleGlyphDims(t *testing.T) {
	cache := NewFontCache()
	h, err := cache.Get(basicFont)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer h.Release()

	if h.Face() != font.Face(basicfont.Face7x13) {
		t.Error("expected the 7x13 bitmap face")
	}
	if got := h.GlyphDims(); got != (PixelSize{Width: 7, Height: 13}) {
		t.Errorf("expected 7x13 cells, got %v", got)
	}
}

func TestFontCacheLoadError(t *testing.T) {
	cache := NewFontCache(WithFontLoader(FileLoader{Dir: t.TempDir()}))

	_, err := cache.Get(FontDescriptor{Typeface: "Missing", Size: 12})
	if !errors.Is(err, ErrResourceLoad) {
		t.Fatalf("expected ErrResourceLoad, got %v", err)
	}
	if cache.Len() != 0 {
		t.Errorf("expected failed load to leave the cache empty, got %d", cache.Len())
	}
}

func TestFileLoader(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "Mono.ttf"), gomono.TTF, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "Broken.ttf"), []byte("not a font"), 0o644); err != nil {
		t.Fatal(err)
	}

	l := FileLoader{Dir: dir}
	if got := l.Path(FontDescriptor{Typeface: "Mono"}); got != filepath.Join(dir, "Mono.ttf") {
		t.Errorf("unexpected path %s", got)
	}

	face, err := l.LoadFont(FontDescriptor{Typeface: "Mono", Size: 14})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if glyphDims(face).Width <= 0 {
		t.Error("expected a positive glyph width")
	}

	if _, err := l.LoadFont(FontDescriptor{Typeface: "Broken", Size: 14}); !errors.Is(err, ErrResourceLoad) {
		t.Errorf("expected ErrResourceLoad for a corrupt file, got %v", err)
	}
}

func TestBuiltinLoader(t *testing.T) {
	tests := []struct {
		desc    FontDescriptor
		wantErr bool
	}{
		{FontDescriptor{Typeface: "GoMono", Size: 16}, false},
		{FontDescriptor{Typeface: "gomono", Size: 16, Bold: true}, false},
		{FontDescriptor{Typeface: "GoMono", Size: 16, Italic: true}, false},
		{FontDescriptor{Typeface: "GoMono", Size: 16, Bold: true, Italic: true}, false},
		{FontDescriptor{Typeface: "basic"}, false},
		{FontDescriptor{Typeface: "Courier", Size: 16}, true},
	}

	for _, tt := range tests {
		_, err := BuiltinLoader{}.LoadFont(tt.desc)
		if (err != nil) != tt.wantErr {
			t.Errorf("LoadFont(%s): wantErr %v, got %v", tt.desc, tt.wantErr, err)
		}
		if err != nil && !errors.Is(err, ErrResourceLoad) {
			t.Errorf("LoadFont(%s): expected ErrResourceLoad, got %v", tt.desc, err)
		}
	}
}

func TestChainLoader(t *testing.T) {
	calls := 0
	failing := FontLoaderFunc(func(FontDescriptor) (font.Face, error) {
		calls++
		return nil, ErrResourceLoad
	})

	face, err := ChainLoader{failing, BuiltinLoader{}}.LoadFont(basicFont)
	if err != nil || face == nil {
		t.Fatalf("expected fallback face, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected first loader tried once, got %d", calls)
	}

	if _, err := (ChainLoader{failing, failing}).LoadFont(basicFont); !errors.Is(err, ErrResourceLoad) {
		t.Errorf("expected ErrResourceLoad when every loader fails, got %v", err)
	}
	if _, err := (ChainLoader{}).LoadFont(basicFont); !errors.Is(err, ErrResourceLoad) {
		t.Errorf("expected ErrResourceLoad for an empty chain, got %v", err)
	}
}

func TestFontDescriptorString(t *testing.T) {
	d := FontDescriptor{Typeface: "GoMono", Size: 12, Bold: true, Italic: true}
	if got := d.String(); got != "GoMono 12pt bold italic" {
		t.Errorf("expected 'GoMono 12pt bold italic', got %q", got)
	}
}
