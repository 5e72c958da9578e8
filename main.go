package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/tdewolff/argp"
	"go.uber.org/zap"

	"LocalSlides/internal/config"
	"LocalSlides/internal/document"
	"LocalSlides/internal/export"
	"LocalSlides/internal/logging"
	slidenet "LocalSlides/internal/net"
	"LocalSlides/internal/render"
	"LocalSlides/internal/ui"
)

type Edit struct {
	Config string `short:"c" desc:"Config file"`
	Input  string `index:"0" desc:"Document to open, or a share link to join as a viewer"`
}

type View struct {
	Config string `short:"c" desc:"Config file"`
	File   string `short:"f" desc:"Browse a document, reloading it when it changes"`
	Link   string `index:"0" desc:"Share link or host:port of a presenter, looked up on the local network when empty"`
}

type Export struct {
	Config string `short:"c" desc:"Config file"`
	Output string `short:"o" desc:"Output PDF, next to the input when empty"`
	Input  string `index:"0" desc:"Input document"`
}

type Check struct {
	Input string `index:"0" desc:"Input document"`
}

func main() {
	root := argp.NewCmd(&Edit{}, "LocalSlides slide editor")
	root.AddCmd(&View{}, "view", "Follow a presenter or browse a document")
	root.AddCmd(&Export{}, "export", "Export a document to PDF")
	root.AddCmd(&Check{}, "check", "Validate a document and summarise its slides")
	root.Parse()
	root.PrintHelp()
}

func setup(path string) (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, err
	}
	logger, err := logging.New(cfg.LogLevel, string(cfg.Environment))
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

func (cmd *Edit) Run() error {
	cfg, logger, err := setup(cmd.Config)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if slidenet.IsShareLink(cmd.Input) {
		addr, err := slidenet.ParseShareLink(cmd.Input)
		if err != nil {
			return err
		}
		return ui.RunViewer(cfg, logger, addr)
	}
	return ui.RunApp(cfg, logger, cmd.Input)
}

func (cmd *View) Run() error {
	cfg, logger, err := setup(cmd.Config)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cmd.File != "" {
		return ui.RunFileViewer(cfg, logger, cmd.File)
	}

	var addr string
	if cmd.Link != "" {
		if addr, err = slidenet.ParseShareLink(cmd.Link); err != nil {
			return err
		}
	}
	return ui.RunViewer(cfg, logger, addr)
}

func (cmd *Export) Run() error {
	if cmd.Input == "" {
		return argp.ShowUsage
	}
	cfg, logger, err := setup(cmd.Config)
	if err != nil {
		return err
	}
	defer logger.Sync()

	slides, err := document.ReadFile(cmd.Input)
	if err != nil {
		return err
	}

	name := strings.TrimSuffix(filepath.Base(cmd.Input), filepath.Ext(cmd.Input))
	output := cmd.Output
	if output == "" {
		output = filepath.Join(filepath.Dir(cmd.Input), name+".pdf")
	}

	opts := export.Options{Size: cfg.Editor().SlideSize, Title: name}
	if err := export.PDFFile(output, slides, opts, render.NewCache()); err != nil {
		return err
	}
	logger.Info("Exported slides", zap.String("output", output), zap.Int("slides", len(slides)))
	return nil
}

func (cmd *Check) Run() error {
	if cmd.Input == "" {
		return argp.ShowUsage
	}

	slides, err := document.ReadFile(cmd.Input)
	if err != nil {
		return err
	}

	fmt.Printf("%s: %d slides\n", cmd.Input, len(slides))
	for i, s := range slides {
		fmt.Printf("%3d  %s  %d elements  %d annotations\n",
			i+1, s.ID, len(s.Elements()), len(s.Annotations()))
	}
	return nil
}
