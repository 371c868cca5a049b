package pixel

import (
	"bytes"
	"testing"

	"github.com/wippyai/valuebox/buffer"
)

func TestConvert_SinglePixel(t *testing.T) {
	tests := []struct {
		name string
		fn   Converter
		in   []byte
		want []byte
	}{
		{"argb to rgba", ARGBToRGBA, []byte{0xFF, 0x00, 0x64, 0xC8}, []byte{0x00, 0x64, 0xC8, 0xFF}},
		{"rgba to argb", RGBAToARGB, []byte{0x00, 0x64, 0xC8, 0xFF}, []byte{0xFF, 0x00, 0x64, 0xC8}},
		{"bgra to argb", BGRAToARGB, []byte{0x00, 0x64, 0xC8, 0xFF}, []byte{0xFF, 0xC8, 0x64, 0x00}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := bytes.Clone(tt.in)
			if !Convert(data, tt.fn, DefaultOptions()) {
				t.Fatal("Convert reported a skip")
			}
			if !bytes.Equal(data, tt.want) {
				t.Fatalf("got % x, want % x", data, tt.want)
			}
		})
	}
}

func TestConvert_RoundTrip(t *testing.T) {
	data := []byte{0xFF, 0x00, 0x64, 0xC8}
	Convert(data, ARGBToRGBA, DefaultOptions())
	Convert(data, RGBAToARGB, DefaultOptions())
	if !bytes.Equal(data, []byte{0xFF, 0x00, 0x64, 0xC8}) {
		t.Fatalf("round trip produced % x", data)
	}
}

func TestConvert_SkipsPartialPixels(t *testing.T) {
	data := []byte{1, 2, 3, 4, 5, 6}
	if Convert(data, ARGBToRGBA, DefaultOptions()) {
		t.Fatal("Convert should report a skip")
	}
	if !bytes.Equal(data, []byte{1, 2, 3, 4, 5, 6}) {
		t.Fatalf("partial input must be untouched, got %v", data)
	}
}

func TestConvert_Empty(t *testing.T) {
	if !Convert(nil, ARGBToRGBA, DefaultOptions()) {
		t.Fatal("empty input is a whole number of pixels")
	}
}

func pattern(n int) []byte {
	data := make([]byte, n)
	for i := range data {
		data[i] = byte(i*31 + i/7)
	}
	return data
}

func TestConvert_ChunkingIsTransparent(t *testing.T) {
	sizes := []int{4092, 2048, 2052, 4, 64 * 1024}

	for _, size := range sizes {
		for _, f := range Formats() {
			sequential := pattern(size)
			parallel := pattern(size)

			Convert(sequential, f.Converter(), Options{Threshold: size, Chunks: 1})
			Convert(parallel, f.Converter(), Options{Threshold: 0, Chunks: 16})

			if !bytes.Equal(sequential, parallel) {
				t.Fatalf("%s, %d bytes: chunked and unchunked output differ", f, size)
			}
		}
	}
}

func TestConvert_DefaultThresholdPath(t *testing.T) {
	// 1023 words is above the default threshold and not divisible by 16.
	data := pattern(4092)
	want := bytes.Clone(data)
	convertRange(want, BGRAToARGB)

	Convert(data, BGRAToARGB, DefaultOptions())
	if !bytes.Equal(data, want) {
		t.Fatal("parallel path diverged from sequential conversion")
	}
}

func TestConvert_MoreChunksThanWords(t *testing.T) {
	data := pattern(12)
	want := bytes.Clone(data)
	convertRange(want, ARGBToRGBA)

	Convert(data, ARGBToRGBA, Options{Threshold: 0, Chunks: 64})
	if !bytes.Equal(data, want) {
		t.Fatal("tiny input split across many chunks diverged")
	}
}

func TestConvertBuffer(t *testing.T) {
	b := buffer.FromSlice([]byte{0xFF, 0x00, 0x64, 0xC8})
	if !ConvertBuffer(&b, ARGBToRGBA, DefaultOptions()) {
		t.Fatal("ConvertBuffer reported a skip")
	}
	if !bytes.Equal(b.Slice(), []byte{0x00, 0x64, 0xC8, 0xFF}) {
		t.Fatalf("got % x", b.Slice())
	}
}

func TestOptions_Validate(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{"defaults", DefaultOptions(), false},
		{"sequential only", Options{Threshold: 0, Chunks: 1}, false},
		{"negative threshold", Options{Threshold: -1, Chunks: 4}, true},
		{"zero chunks", Options{Threshold: 10, Chunks: 0}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	for _, f := range Formats() {
		got, err := ParseFormat(string(f))
		if err != nil || got != f {
			t.Fatalf("ParseFormat(%q) = %q, %v", f, got, err)
		}
		if got.Converter() == nil {
			t.Fatalf("%q has no converter", f)
		}
	}
	if _, err := ParseFormat("cmyk-to-rgb"); err == nil {
		t.Fatal("unknown format should fail")
	}
}

func BenchmarkConvert(b *testing.B) {
	data := pattern(4 * 1920 * 1080)
	b.SetBytes(int64(len(data)))

	b.Run("sequential", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			Convert(data, ARGBToRGBA, Options{Threshold: len(data), Chunks: 1})
		}
	})
	b.Run("chunked", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			Convert(data, ARGBToRGBA, DefaultOptions())
		}
	})
}
