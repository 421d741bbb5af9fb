package site

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/dgallion1/rfcsite/internal/pdfexport"
	"github.com/dgallion1/rfcsite/internal/toc"
	"github.com/dgallion1/rfcsite/internal/web"
	"golang.org/x/sync/errgroup"
)

// BuildResult summarises a static build.
type BuildResult struct {
	Pages  int
	Assets int
}

// WriteStatic renders every page into outDir as "<route>/index.html" plus
// the landing page, a 404 page, embedded assets, the PDF and the files
// under staticDir (if non-empty and present).
func (s *Site) WriteStatic(ctx context.Context, outDir, staticDir string, workers int) (BuildResult, error) {
	var res BuildResult
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return res, fmt.Errorf("create out dir: %w", err)
	}

	// Embedded images are also served from the site root ("/img/..."),
	// below anything in staticDir.
	img, err := fs.Sub(web.Assets(), "img")
	if err != nil {
		return res, err
	}
	n, err := copyTree(img, filepath.Join(outDir, "img"))
	if err != nil {
		return res, fmt.Errorf("copy images: %w", err)
	}
	res.Assets += n

	if staticDir != "" {
		if _, err := os.Stat(staticDir); err == nil {
			n, err := copyTree(os.DirFS(staticDir), outDir)
			if err != nil {
				return res, fmt.Errorf("copy static: %w", err)
			}
			res.Assets += n
		}
	}
	n, err = copyTree(web.Assets(), filepath.Join(outDir, "assets"))
	if err != nil {
		return res, fmt.Errorf("copy assets: %w", err)
	}
	res.Assets += n

	if err := writeFile(filepath.Join(outDir, "assets", "css", "highlight.css"), []byte(s.css)); err != nil {
		return res, err
	}
	if err := s.writeJSON(outDir); err != nil {
		return res, err
	}
	if s.pdf != nil {
		data, err := os.ReadFile(s.pdf.Path)
		if err != nil {
			return res, fmt.Errorf("read pdf: %w", err)
		}
		if err := writeFile(filepath.Join(outDir, strings.TrimPrefix(pdfexport.Route, "/")), data); err != nil {
			return res, err
		}
		res.Assets++
	}

	type job struct {
		file string
		data web.PageData
	}
	jobs := []job{
		{file: filepath.Join(outDir, "index.html"), data: s.HomeData()},
		{file: filepath.Join(outDir, "404.html"), data: s.NotFoundData()},
	}
	for _, route := range s.routes {
		jobs = append(jobs, job{
			file: filepath.Join(outDir, filepath.FromSlash(strings.TrimPrefix(route, "/")), "index.html"),
			data: s.DocData(s.pages[route]),
		})
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))
	for _, j := range jobs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			var buf bytes.Buffer
			if err := s.RenderPage(&buf, j.data); err != nil {
				return fmt.Errorf("render %s: %w", j.file, err)
			}
			return writeFile(j.file, buf.Bytes())
		})
	}
	if err := g.Wait(); err != nil {
		return res, err
	}
	res.Pages = len(jobs)
	return res, nil
}

func (s *Site) writeJSON(outDir string) error {
	sidebarJSON, err := json.Marshal(s.tree)
	if err != nil {
		return fmt.Errorf("encode sidebar: %w", err)
	}
	if err := writeFile(filepath.Join(outDir, "sidebar.json"), sidebarJSON); err != nil {
		return err
	}
	entries := s.entries
	if entries == nil {
		entries = []toc.Entry{}
	}
	tocJSON, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode toc: %w", err)
	}
	return writeFile(filepath.Join(outDir, "toc.json"), tocJSON)
}

func writeFile(name string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(name), 0o755); err != nil {
		return fmt.Errorf("create dir for %s: %w", name, err)
	}
	if err := os.WriteFile(name, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

func copyTree(src fs.FS, dst string) (int, error) {
	n := 0
	err := fs.WalkDir(src, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		in, err := src.Open(p)
		if err != nil {
			return err
		}
		defer in.Close()
		target := filepath.Join(dst, filepath.FromSlash(p))
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return err
		}
		out, err := os.Create(target)
		if err != nil {
			return err
		}
		if _, err := io.Copy(out, in); err != nil {
			out.Close()
			return err
		}
		n++
		return out.Close()
	})
	return n, err
}
