package ffmpeg

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/trailmixer/trailmixer/internal/types"
)

func testAdapter() *Adapter {
	return New("ffmpeg", zerolog.Nop())
}

func TestExtractArgsFastPath(t *testing.T) {
	t.Parallel()

	got := testAdapter().ExtractArgs("in.mp4", types.MediaSegment{Start: 40, End: 55}, "out.mp4", false)
	want := []string{
		"-y",
		"-ss", "40.000",
		"-i", "in.mp4",
		"-t", "15.000",
		"-c", "copy",
		"-avoid_negative_ts", "make_zero",
		"out.mp4",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestExtractArgsSeekBeforeInput(t *testing.T) {
	t.Parallel()

	args := testAdapter().ExtractArgs("in.mp4", types.MediaSegment{Start: 1.5, End: 2}, "out.mp4", false)
	ss := indexOf(args, "-ss")
	in := indexOf(args, "-i")
	if ss < 0 || in < 0 || ss > in {
		t.Fatalf("-ss must precede -i for key-frame seek, got %v", args)
	}
}

func TestExtractArgsReencode(t *testing.T) {
	t.Parallel()

	args := testAdapter().ExtractArgs("in.mp4", types.MediaSegment{Start: 0, End: 10}, "out.mp4", true)
	for _, want := range []string{"libx264", "veryfast", "-crf"} {
		if indexOf(args, want) < 0 {
			t.Fatalf("missing %q in %v", want, args)
		}
	}
	// audio still copied on the fallback tier
	ca := indexOf(args, "-c:a")
	if ca < 0 || args[ca+1] != "copy" {
		t.Fatalf("fallback must copy audio, got %v", args)
	}
}

func TestConcatArgs(t *testing.T) {
	t.Parallel()

	got := testAdapter().ConcatArgs("list.txt", "out.mp4", false)
	want := []string{"-y", "-f", "concat", "-safe", "0", "-i", "list.txt", "-c", "copy", "out.mp4"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}

	re := testAdapter().ConcatArgs("list.txt", "out.mp4", true)
	if indexOf(re, "libx264") < 0 {
		t.Fatalf("reencode tier must re-encode video, got %v", re)
	}
}

func TestWriteConcatManifestEscaping(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	manifest := filepath.Join(dir, "list.txt")
	tricky := filepath.Join(dir, "it's a clip.mp4")

	if err := WriteConcatManifest(manifest, []string{tricky}); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	b, err := os.ReadFile(manifest)
	if err != nil {
		t.Fatalf("read manifest: %v", err)
	}
	line := strings.TrimRight(string(b), "\n")
	if !strings.HasPrefix(line, "file '") || !strings.HasSuffix(line, "'") {
		t.Fatalf("entry not quoted: %q", line)
	}
	if !strings.Contains(line, `it'\''s a clip.mp4`) {
		t.Fatalf("embedded quote not escaped: %q", line)
	}
}

func TestWriteConcatManifestOrder(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	manifest := filepath.Join(dir, "list.txt")
	inputs := []string{
		filepath.Join(dir, "c.mp4"),
		filepath.Join(dir, "a.mp4"),
		filepath.Join(dir, "b.mp4"),
	}
	if err := WriteConcatManifest(manifest, inputs); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	b, err := os.ReadFile(manifest)
	if err != nil {
		t.Fatalf("read manifest: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(b), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 entries, got %d: %q", len(lines), lines)
	}
	for i, in := range inputs {
		if !strings.Contains(lines[i], filepath.Base(in)) {
			t.Fatalf("line %d = %q, want entry for %q; list order must be preserved", i, lines[i], in)
		}
	}
}

func TestBuildMixFilter(t *testing.T) {
	t.Parallel()

	tracks := []types.MusicTrack{
		{FilePath: "happy.mp3", Start: 0, End: 12, Volume: 0.5, FadeIn: 1, FadeOut: 1},
		{FilePath: "calm.mp3", Start: 12, End: 25, Volume: 0.3},
	}
	graph := BuildMixFilter(tracks, 0.4, 0.3)

	checks := []string{
		"[0:a]volume=0.4[a0]",           // original audio ducked
		"[1:a]volume=0.15",              // 0.5 * 0.3
		"afade=t=in:st=0:d=1.000",       // fade-in at window start
		"afade=t=out:st=11.000:d=1.000", // fade-out ends at window end
		"atrim=0:12.000",                // first track trimmed to its window
		"[2:a]volume=0.09",              // 0.3 * 0.3
		"atrim=0:13.000",
		"adelay=12000|12000", // second track delayed to t=12s, both channels
		"[a0][a1][a2]amix=inputs=3:duration=longest[aout]",
	}
	for _, c := range checks {
		if !strings.Contains(graph, c) {
			t.Fatalf("graph missing %q:\n%s", c, graph)
		}
	}
	if strings.Contains(strings.Split(graph, ";")[1], "adelay") {
		t.Fatalf("track starting at 0 must not be delayed:\n%s", graph)
	}
}

func TestBuildMixFilterNoTracks(t *testing.T) {
	t.Parallel()

	graph := BuildMixFilter(nil, 1, 0.3)
	if !strings.Contains(graph, "amix=inputs=1:duration=longest[aout]") {
		t.Fatalf("unexpected graph: %s", graph)
	}
}

func TestMixArgs(t *testing.T) {
	t.Parallel()

	tracks := []types.MusicTrack{{FilePath: "m.mp3", Start: 0, End: 10, Volume: 1}}
	args := testAdapter().MixArgs("video.mp4", tracks, "out.mp4", 0.4, 0.3, false)

	cv := indexOf(args, "-c:v")
	if cv < 0 || args[cv+1] != "copy" {
		t.Fatalf("tier 1 must copy the video stream, got %v", args)
	}
	if indexOf(args, "-filter_complex") < 0 {
		t.Fatalf("missing filter graph in %v", args)
	}
	if n := count(args, "-i"); n != 2 {
		t.Fatalf("expected 2 inputs (video + 1 track), got %d in %v", n, args)
	}
	if args[len(args)-1] != "out.mp4" {
		t.Fatalf("output must be last, got %v", args)
	}

	re := testAdapter().MixArgs("video.mp4", tracks, "out.mp4", 0.4, 0.3, true)
	if indexOf(re, "libx264") < 0 {
		t.Fatalf("reencode tier must re-encode video, got %v", re)
	}
}

func indexOf(args []string, want string) int {
	for i, a := range args {
		if a == want {
			return i
		}
	}
	return -1
}

func count(args []string, want string) int {
	n := 0
	for _, a := range args {
		if a == want {
			n++
		}
	}
	return n
}
