// Image to LTDC layer format converter.
//
// Emits raw pixel data the way the display controller scans it out,
// ready for flashing next to the firmware image. L8 output is palettized
// with a median cut quantizer and carries its CLUT in front of the pixel
// data, 256 ARGB8888 entries.
package main

import (
	"bufio"
	"encoding/binary"
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/ericpauley/go-quantize/quantize"
)

var (
	format  = flag.String("format", "ARGB8888", "pixel format: ARGB8888, RGB565 or L8")
	dither  = flag.Bool("dither", false, "enable Floyd-Steinberg error diffusion")
	palette = flag.Int("palette", 256, "number of CLUT entries in L8 format")
)

const usageString = `Image to LTDC layer converter.

Usage: %s [flags] <image>

`

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), usageString, "texture")
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}
	imagefile := flag.Arg(0)

	r, err := os.Open(imagefile)
	if err != nil {
		log.Fatalln(err)
	}
	src, _, err := image.Decode(r)
	if err != nil {
		log.Fatalln(err)
	}
	r.Close()

	outfile := strings.TrimSuffix(imagefile, filepath.Ext(imagefile))
	outfile += "." + *format
	f, err := os.Create(outfile)
	if err != nil {
		log.Fatalln(err)
	}
	defer f.Close()
	w := bufio.NewWriter(f)

	switch *format {
	case "ARGB8888":
		err = storeARGB8888(w, render(src))
	case "RGB565":
		err = storeRGB565(w, render(src))
	case "L8":
		err = storeL8(w, src)
	default:
		log.Fatal("unsupported format: ", *format)
	}
	if err != nil {
		log.Fatalln(err)
	}
	if err := w.Flush(); err != nil {
		log.Fatalln(err)
	}
}

func render(src image.Image) *image.RGBA {
	dst := image.NewRGBA(src.Bounds())
	draw.Draw(dst, dst.Bounds(), src, src.Bounds().Min, draw.Src)
	return dst
}

// storeARGB8888 writes one 32 bit word per pixel, the controller's
// highest depth layer format.
func storeARGB8888(w io.Writer, src *image.RGBA) error {
	b := src.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := src.RGBAAt(x, y)
			v := uint32(c.A)<<24 | uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
			if err := binary.Write(w, binary.LittleEndian, v); err != nil {
				return err
			}
		}
	}
	return nil
}

func storeRGB565(w io.Writer, src *image.RGBA) error {
	b := src.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := src.RGBAAt(x, y)
			v := uint16(c.R>>3)<<11 | uint16(c.G>>2)<<5 | uint16(c.B>>3)
			if err := binary.Write(w, binary.LittleEndian, v); err != nil {
				return err
			}
		}
	}
	return nil
}

// storeL8 quantizes to at most palette colors and writes the full 256
// entry CLUT followed by one index byte per pixel.
func storeL8(w io.Writer, src image.Image) error {
	q := quantize.MedianCutQuantizer{}
	p := q.Quantize(make([]color.Color, 0, *palette), src)

	dst := image.NewPaletted(src.Bounds(), p)
	var d draw.Drawer = draw.Src
	if *dither {
		d = draw.FloydSteinberg
	}
	d.Draw(dst, dst.Bounds(), src, src.Bounds().Min)

	var clut [256]uint32
	for i, c := range p {
		r, g, b, a := c.RGBA()
		clut[i] = uint32(a>>8)<<24 | uint32(r>>8)<<16 | uint32(g>>8)<<8 | uint32(b>>8)
	}
	if err := binary.Write(w, binary.LittleEndian, clut[:]); err != nil {
		return err
	}
	_, err := w.Write(dst.Pix)
	return err
}
