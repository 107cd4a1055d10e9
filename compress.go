package dblog

import (
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Compression algorithms for rolled files
const (
	CompressionNone = "none"
	CompressionGzip = "gzip"
	CompressionZstd = "zstd"
)

// compressedExt returns the suffix added to a compressed rolled file
func compressedExt(algorithm string) string {
	switch algorithm {
	case CompressionGzip:
		return ".gz"
	case CompressionZstd:
		return ".zst"
	default:
		return ""
	}
}

// compressFile compresses src into src+ext and removes src on success
func compressFile(src, algorithm string) error {
	dst := src + compressedExt(algorithm)

	srcFile, err := os.Open(src)
	if err != nil {
		return fmtErrorf("failed to open '%s' for compression: %w", src, err)
	}
	defer srcFile.Close()

	dstFile, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return fmtErrorf("failed to create compressed file '%s': %w", dst, err)
	}

	var enc io.WriteCloser
	switch algorithm {
	case CompressionZstd:
		zenc, err := zstd.NewWriter(dstFile)
		if err != nil {
			_ = dstFile.Close()
			_ = os.Remove(dst)
			return fmtErrorf("failed to init zstd writer for '%s': %w", dst, err)
		}
		enc = zenc
	default:
		enc = gzip.NewWriter(dstFile)
	}

	_, copyErr := io.Copy(enc, srcFile)
	if closeErr := enc.Close(); copyErr == nil {
		copyErr = closeErr
	}
	if copyErr != nil {
		_ = dstFile.Close()
		_ = os.Remove(dst)
		return fmtErrorf("failed to write compressed data to '%s': %w", dst, copyErr)
	}

	if err := dstFile.Close(); err != nil {
		return fmtErrorf("failed to close compressed file '%s': %w", dst, err)
	}

	if err := os.Remove(src); err != nil {
		return fmtErrorf("failed to remove '%s' after compression: %w", src, err)
	}
	return nil
}

// compressAsync compresses a rolled file off the writer goroutine
func (r *roller) compressAsync(path string) {
	r.compressing.Add(1)
	go func() {
		defer r.compressing.Done()
		if err := compressFile(path, r.compression); err != nil {
			r.l.internalLog("%v\n", err)
			return
		}
		r.l.state.TotalCompressions.Add(1)
	}()
}
