package compiler

import (
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/anthonynsimon/bild/clone"
	"github.com/anthonynsimon/bild/transform"
	"github.com/grovetools/hotload/config"
	"github.com/grovetools/hotload/errors"
	"github.com/grovetools/hotload/logging"
	"github.com/grovetools/hotload/pkg/asset"
	"github.com/grovetools/hotload/pkg/texture"
	"github.com/sirupsen/logrus"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Default compiles images with the registered image decoders and glTF scenes.
type Default struct {
	MaxSize      int
	GenerateMips bool
	Logger       *logrus.Entry
}

// NewDefault creates a compiler from the compiler config section.
func NewDefault(cfg config.CompilerConfig) *Default {
	return &Default{
		MaxSize:      cfg.MaxTextureSize,
		GenerateMips: cfg.MipsEnabled(),
		Logger:       logging.NewLogger("hotload.compiler"),
	}
}

// CompileTexture decodes the record's source, clamps it to the max size and
// builds the mip chain.
func (c *Default) CompileTexture(rec *asset.TuneRecord) (*texture.Texture, error) {
	f, err := os.Open(rec.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.AssetNotFound(rec.Path)
		}
		return nil, errors.TextureCompileFailed(rec.Path, err)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		if err == image.ErrFormat {
			return nil, errors.UnsupportedFormat(rec.Path)
		}
		return nil, errors.TextureCompileFailed(rec.Path, err)
	}

	base := clone.AsRGBA(img)
	w, h := clampSize(base.Bounds().Dx(), base.Bounds().Dy(), c.maxSize(rec.Options))
	if w != base.Bounds().Dx() || h != base.Bounds().Dy() {
		base = transform.Resize(base, w, h, transform.Linear)
	}

	levels := []*image.RGBA{base}
	if c.mipsEnabled(rec.Options) {
		levels = buildMips(base)
	}

	c.logger().WithFields(logrus.Fields{
		"path":   rec.Path,
		"format": format,
		"size":   [2]int{w, h},
		"levels": len(levels),
	}).Debug("Compiled texture")

	return &texture.Texture{
		Name:   rec.Name(),
		Width:  w,
		Height: h,
		Levels: levels,
		Source: rec.Path,
	}, nil
}

// CompileDictionary compiles every record of txd. Missing or broken
// textures become placeholders.
func (c *Default) CompileDictionary(txd *asset.TxdAsset) (*texture.Dictionary, error) {
	info, err := os.Stat(txd.Path)
	if err != nil {
		return nil, errors.TxdCompileFailed(txd.Path, err)
	}
	if !info.IsDir() {
		return nil, errors.TxdCompileFailed(txd.Path, errors.AssetInvalid(txd.Path, "not a directory"))
	}

	dict := texture.NewDictionary(txd.Name)
	for _, rec := range txd.Tunes.All() {
		if rec.Missing {
			dict.Insert(texture.NewPlaceholder(rec.Name()))
			continue
		}
		tex, err := c.CompileTexture(rec)
		if err != nil {
			c.logger().WithError(err).WithField("path", rec.Path).Error("Texture failed to compile, using placeholder")
			dict.Insert(texture.NewPlaceholder(rec.Name()))
			continue
		}
		dict.Insert(tex)
	}
	return dict, nil
}

func (c *Default) maxSize(opts asset.TuneOptions) int {
	size := c.MaxSize
	if opts.MaxSize > 0 && (size == 0 || opts.MaxSize < size) {
		size = opts.MaxSize
	}
	return size
}

func (c *Default) mipsEnabled(opts asset.TuneOptions) bool {
	if opts.GenerateMips != nil {
		return *opts.GenerateMips
	}
	return c.GenerateMips
}

func (c *Default) logger() *logrus.Entry {
	if c.Logger == nil {
		return logging.NewLogger("hotload.compiler")
	}
	return c.Logger
}

// clampSize scales w×h down so neither side exceeds limit, keeping the aspect ratio.
func clampSize(w, h, limit int) (int, int) {
	if limit <= 0 || (w <= limit && h <= limit) {
		return w, h
	}
	if w >= h {
		return limit, max(1, h*limit/w)
	}
	return max(1, w*limit/h), limit
}

func buildMips(base *image.RGBA) []*image.RGBA {
	levels := []*image.RGBA{base}
	w, h := base.Bounds().Dx(), base.Bounds().Dy()
	for w > 1 || h > 1 {
		w, h = max(1, w/2), max(1, h/2)
		levels = append(levels, transform.Resize(levels[len(levels)-1], w, h, transform.Linear))
	}
	return levels
}
