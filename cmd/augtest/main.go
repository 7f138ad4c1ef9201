// Command augtest runs a pipeline once over an image/label pair and prints the
// group's shapes after every stage.
package main

import (
	"flag"
	"fmt"
	"math/rand/v2"
	"os"

	"segaug/internal/augment"
	"segaug/internal/config"
	segimage "segaug/internal/image"
)

func main() {
	pipelinePath := flag.String("config", "", "Path to pipeline TOML")
	imagePath := flag.String("image", "", "Path to image (TIFF, PNG, or JPEG)")
	labelPath := flag.String("label", "", "Path to label mask")
	seed := flag.Uint64("seed", 1, "Random seed")
	flag.Parse()

	if *pipelinePath == "" || *imagePath == "" || *labelPath == "" {
		fmt.Println("Usage: augtest -config <pipeline.toml> -image <path> -label <path> [-seed 1]")
		os.Exit(1)
	}

	f, err := config.Load(*pipelinePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load pipeline: %v\n", err)
		os.Exit(1)
	}
	pipeline, err := f.Pipeline()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid pipeline: %v\n", err)
		os.Exit(1)
	}

	img, err := segimage.Load(*imagePath, segimage.KindColor)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load image: %v\n", err)
		os.Exit(1)
	}
	lbl, err := segimage.Load(*labelPath, segimage.KindLabel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load label: %v\n", err)
		os.Exit(1)
	}

	rng := rand.New(rand.NewPCG(*seed, *seed))
	group := augment.Group{img, lbl}
	fmt.Printf("%-3s %-24s %-16s %-16s\n", "#", "Stage", "Image", "Label")
	fmt.Printf("%-3s %-24s %-16v %-16v\n", "-", "input", img.Shape(), lbl.Shape())

	for i, t := range pipeline {
		group, err = t.Apply(rng, group)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Stage %d (%s) failed: %v\n", i, f.Stages[i].Type, err)
			os.Exit(1)
		}
		fmt.Printf("%-3d %-24s %-16v %-16v\n", i, f.Stages[i].Type, group[0].Shape(), group[1].Shape())
	}
}
