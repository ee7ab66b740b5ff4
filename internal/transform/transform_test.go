package transform_test

import (
	"bytes"
	"context"
	"errors"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/image/webp"

	"imgopt/internal/batch"
	"imgopt/internal/testsupport"
	"imgopt/internal/transform"
)

func runJob(t *testing.T, builder *batch.Builder) (batch.Job, batch.Report) {
	t.Helper()
	job, err := builder.Workers(2).Build()
	if err != nil {
		t.Fatalf("build job: %v", err)
	}
	op, err := transform.ForJob(job)
	if err != nil {
		t.Fatalf("ForJob: %v", err)
	}
	report, err := batch.NewRunner(nil).Run(context.Background(), job, op)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if err := report.Err(); err != nil {
		t.Fatalf("unexpected file failures: %v", err)
	}
	return job, report
}

func resultFor(t *testing.T, report batch.Report, base string) batch.Result {
	t.Helper()
	for _, res := range report.Results {
		if filepath.Base(res.Source) == base {
			return res
		}
	}
	t.Fatalf("no result for %s", base)
	return batch.Result{}
}

func TestCompressReencodesJPEGAndPNG(t *testing.T) {
	in := t.TempDir()
	testsupport.WriteJPEG(t, filepath.Join(in, "photo.jpg"), 128, 96, 95)
	testsupport.WritePNG(t, filepath.Join(in, "album", "scan.png"), 40, 40)
	testsupport.WriteFile(t, filepath.Join(in, "readme.txt"), 5)

	job, report := runJob(t, batch.NewBuilder(batch.KindCompress).
		InputDir(in).
		OutputDir(filepath.Join(t.TempDir(), "comp")).
		Quality(30))

	if report.Processed != 2 || report.Skipped != 1 {
		t.Fatalf("unexpected counts: processed=%d skipped=%d", report.Processed, report.Skipped)
	}

	photo := resultFor(t, report, "photo.jpg")
	if photo.Destination != filepath.Join(job.OutputDir, "photo.jpg") {
		t.Fatalf("unexpected destination %q", photo.Destination)
	}
	if photo.BytesOut >= photo.BytesIn || photo.KeptSource {
		t.Fatalf("expected smaller re-encode, in=%d out=%d kept=%v", photo.BytesIn, photo.BytesOut, photo.KeptSource)
	}
	if photo.SourceQuality < 90 {
		t.Fatalf("expected detected source quality near 95, got %d", photo.SourceQuality)
	}

	scan := resultFor(t, report, "scan.png")
	if scan.Destination != filepath.Join(job.OutputDir, "album", "scan.jpg") {
		t.Fatalf("expected mirrored jpg destination, got %q", scan.Destination)
	}
	data, err := os.ReadFile(scan.Destination)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := jpeg.Decode(bytes.NewReader(data)); err != nil {
		t.Fatalf("png output is not a jpeg: %v", err)
	}
}

func TestCompressKeepsSmallerSource(t *testing.T) {
	in := t.TempDir()
	src := filepath.Join(in, "tiny.jpg")
	testsupport.WriteJPEG(t, src, 64, 64, 10)

	_, report := runJob(t, batch.NewBuilder(batch.KindCompress).
		InputDir(in).
		OutputDir(filepath.Join(t.TempDir(), "comp")).
		Quality(100))

	res := resultFor(t, report, "tiny.jpg")
	if !res.KeptSource || res.BytesOut != res.BytesIn {
		t.Fatalf("expected source kept, got %+v", res.Output)
	}
	want, _ := os.ReadFile(src)
	got, _ := os.ReadFile(res.Destination)
	if !bytes.Equal(want, got) {
		t.Fatal("kept output differs from source bytes")
	}
}

func TestCompressScales(t *testing.T) {
	in := t.TempDir()
	testsupport.WriteJPEG(t, filepath.Join(in, "big.jpg"), 200, 100, 90)

	_, report := runJob(t, batch.NewBuilder(batch.KindCompress).
		InputDir(in).
		OutputDir(filepath.Join(t.TempDir(), "comp")).
		Quality(80).
		Scale(0.5))

	file, err := os.Open(resultFor(t, report, "big.jpg").Destination)
	if err != nil {
		t.Fatal(err)
	}
	defer file.Close()
	cfg, err := jpeg.DecodeConfig(file)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != 100 || cfg.Height != 50 {
		t.Fatalf("expected 100x50, got %dx%d", cfg.Width, cfg.Height)
	}
}

func TestCompressReportsDecodeFailure(t *testing.T) {
	in := t.TempDir()
	testsupport.WriteFile(t, filepath.Join(in, "corrupt.jpg"), 128)
	testsupport.WriteJPEG(t, filepath.Join(in, "ok.jpg"), 16, 16, 90)

	job, err := batch.NewBuilder(batch.KindCompress).InputDir(in).OutputDir(filepath.Join(t.TempDir(), "comp")).Quality(50).Build()
	if err != nil {
		t.Fatal(err)
	}
	report, err := batch.NewRunner(nil).Run(context.Background(), job, transform.NewCompress(job))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.Processed != 1 || len(report.Failures) != 1 || report.Err() == nil {
		t.Fatalf("expected one failure, got processed=%d failures=%d", report.Processed, len(report.Failures))
	}
	if _, err := os.Stat(filepath.Join(job.OutputDir, "corrupt.jpg")); !os.IsNotExist(err) {
		t.Fatalf("failed file should leave no output, stat err=%v", err)
	}
}

func TestConvertWritesWebP(t *testing.T) {
	in := t.TempDir()
	testsupport.WriteJPEG(t, filepath.Join(in, "a.jpg"), 48, 32, 90)
	testsupport.WritePNG(t, filepath.Join(in, "b.png"), 20, 10)
	testsupport.WriteFile(t, filepath.Join(in, "already.webp"), 16)
	testsupport.WriteJPEG(t, filepath.Join(in, "nested", "c.jpg"), 8, 8, 90)

	job, report := runJob(t, batch.NewBuilder(batch.KindConvert).
		InputDir(in).
		OutputDir(filepath.Join(t.TempDir(), "webps")).
		Quality(75))

	if report.Processed != 2 || report.Skipped != 1 {
		t.Fatalf("unexpected counts: processed=%d skipped=%d", report.Processed, report.Skipped)
	}
	for name, size := range map[string][2]int{"a.webp": {48, 32}, "b.webp": {20, 10}} {
		data, err := os.ReadFile(filepath.Join(job.OutputDir, name))
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		cfg, err := webp.DecodeConfig(bytes.NewReader(data))
		if err != nil {
			t.Fatalf("decode %s: %v", name, err)
		}
		if cfg.Width != size[0] || cfg.Height != size[1] {
			t.Fatalf("%s: got %dx%d", name, cfg.Width, cfg.Height)
		}
	}
}

func TestRenameUsesCaptureTime(t *testing.T) {
	in := t.TempDir()
	testsupport.WriteJPEGWithCaptureTime(t, filepath.Join(in, "DSC0001.jpg"), "2023:07:04 15:30:45")
	testsupport.WriteJPEG(t, filepath.Join(in, "no_exif.jpg"), 8, 8, 90)
	testsupport.WriteFile(t, filepath.Join(in, "notes.txt"), 12)

	job, report := runJob(t, batch.NewBuilder(batch.KindRename).
		InputDir(in).
		OutputDir(filepath.Join(t.TempDir(), "renamed")).
		Prefix("IMG_").
		Name("trip").
		TimeZone("UTC"))

	if report.Processed != 3 {
		t.Fatalf("expected 3 files renamed, got %d", report.Processed)
	}
	for _, name := range []string{"IMG_23_07_04_15_30_45_trip.jpg", "no_exif.jpg", "notes.txt"} {
		if _, err := os.Stat(filepath.Join(job.OutputDir, name)); err != nil {
			t.Fatalf("expected %s: %v", name, err)
		}
	}
	if _, err := os.Stat(filepath.Join(in, "DSC0001.jpg")); err != nil {
		t.Fatalf("rename must leave the source in place: %v", err)
	}
}

func TestRenameFileNameSanitizes(t *testing.T) {
	job := batch.Job{Kind: batch.KindRename, Prefix: "a/b:", Name: "café?", TimeZone: "UTC"}
	op, err := transform.NewRename(job)
	if err != nil {
		t.Fatal(err)
	}
	got := op.FileName(time.Date(2009, 12, 31, 23, 59, 58, 0, time.UTC), "JPG")
	if want := "a-b-09_12_31_23_59_58_café.JPG"; got != want {
		t.Fatalf("FileName = %q, want %q", got, want)
	}
	if got := op.FileName(time.Date(2009, 1, 2, 3, 4, 5, 0, time.UTC), ""); got != "a-b-09_01_02_03_04_05_café" {
		t.Fatalf("extensionless FileName = %q", got)
	}
}

func TestForJobRejectsUnknownKind(t *testing.T) {
	if _, err := transform.ForJob(batch.Job{Kind: "shrink"}); !errors.Is(err, batch.ErrInvalidJob) {
		t.Fatalf("expected ErrInvalidJob, got %v", err)
	}
}
