// Command wsidemo presents frames to a headless surface through the
// presentation layer and saves the last frame as a PNG.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log"
	"log/slog"
	"math"
	"os"

	"github.com/gogpu/wgpu/hal/noop"
	"github.com/gogpu/wsi"
	"github.com/gogpu/wsi/backend/native"
	"github.com/gogpu/wsi/sink"
	"github.com/gogpu/wsi/vk"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

func main() {
	var (
		width   = flag.Int("width", 320, "swapchain image width")
		height  = flag.Int("height", 240, "swapchain image height")
		frames  = flag.Int("frames", 3, "frames to present")
		images  = flag.Int("images", 2, "minimum swapchain image count")
		backend = flag.String("backend", "vulkan", "HAL backend: vulkan or noop")
		scale   = flag.Int("scale", 1, "output scale factor")
		output  = flag.String("output", "wsidemo.png", "output file")
		verbose = flag.Bool("v", false, "log layer activity to stderr")
	)
	flag.Parse()

	if *verbose {
		wsi.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	drv, err := openDriver(*backend)
	if err != nil {
		log.Fatalf("Failed to open %s driver: %v", *backend, err)
	}
	defer drv.Close()
	log.Printf("Device: %s", drv.Properties().DeviceName)

	k := sink.NewImageSink(uint32(*width), uint32(*height))
	defer k.Close()

	if err := present(drv, k, *width, *height, *images, *frames); err != nil {
		log.Fatalf("Present failed: %v", err)
	}

	img := k.Scaled(*width**scale, *height**scale)
	if img == nil {
		log.Fatal("No frame reached the surface")
	}
	if err := savePNG(*output, img); err != nil {
		log.Fatalf("Failed to save: %v", err)
	}
	log.Printf("%d frames presented, last saved to %s (%dx%d)", k.Frames(), *output, img.Bounds().Dx(), img.Bounds().Dy())
}

func openDriver(backend string) (*native.Driver, error) {
	if backend == "noop" {
		return native.OpenWith(&noop.API{})
	}
	return native.Open()
}

// present drives one swapchain through the layer the way a Vulkan
// application would.
func present(drv *native.Driver, k sink.Sink, width, height, minImages, frames int) error {
	layer := wsi.New()

	instance, res := layer.CreateInstance(&vk.InstanceCreateInfo{
		Next:                  drv.InstanceChain(),
		EnabledExtensionNames: []string{vk.KHRSurfaceExtensionName, vk.EXTHeadlessSurfaceExtensionName},
	}, nil)
	if res != vk.Success {
		return res
	}
	defer layer.DestroyInstance(instance, nil)

	enumerate, ok := vk.ProcAs[vk.EnumeratePhysicalDevicesFunc](layer.GetInstanceProcAddr(instance, "vkEnumeratePhysicalDevices"))
	if !ok {
		return vk.ErrorInitializationFailed
	}
	n := uint32(1)
	pds := make([]vk.PhysicalDevice, n)
	if res := enumerate(instance, &n, pds); res != vk.Success {
		return res
	}

	device, res := layer.CreateDevice(pds[0], &vk.DeviceCreateInfo{
		Next:                  drv.DeviceChain(),
		EnabledExtensionNames: []string{vk.KHRSwapchainExtensionName},
	}, nil)
	if res != vk.Success {
		return res
	}
	defer layer.DestroyDevice(device, nil)

	surf, res := layer.CreateHeadlessSurface(instance, &vk.HeadlessSurfaceCreateInfo{}, nil)
	if res != vk.Success {
		return res
	}
	defer layer.DestroySurface(instance, surf, nil)
	if err := layer.SetBitmapHook(surf, k); err != nil {
		return err
	}

	sc, res := layer.CreateSwapchain(device, &vk.SwapchainCreateInfo{
		Surface:          surf,
		MinImageCount:    uint32(minImages),
		ImageFormat:      vk.FormatB8G8R8A8Unorm,
		ImageColorSpace:  vk.ColorSpaceSRGBNonlinear,
		ImageExtent:      vk.Extent2D{Width: uint32(width), Height: uint32(height)},
		ImageArrayLayers: 1,
		ImageUsage:       vk.ImageUsageColorAttachment | vk.ImageUsageTransferSrc,
		PresentMode:      vk.PresentModeFIFO,
	}, nil)
	if res != vk.Success {
		return res
	}
	defer layer.DestroySwapchain(device, sc, nil)

	var count uint32
	if res := layer.GetSwapchainImages(device, sc, &count, nil); res != vk.Success {
		return res
	}
	swapImages := make([]vk.Image, count)
	if res := layer.GetSwapchainImages(device, sc, &count, swapImages); res != vk.Success {
		return res
	}

	for i := 0; i < frames; i++ {
		idx, res := layer.AcquireNextImage(device, sc, vk.InfiniteTimeout, vk.NullHandle, vk.NullHandle)
		if res != vk.Success && res != vk.Suboptimal {
			return res
		}
		if err := drv.WriteImage(swapImages[idx], drawFrame(width, height, i)); err != nil {
			return err
		}
		res = layer.QueuePresent(drv.Queue(), &vk.PresentInfo{
			Swapchains:   []vk.SwapchainKHR{sc},
			ImageIndices: []uint32{idx},
		})
		if res != vk.Success && res != vk.Suboptimal {
			return res
		}
	}
	return nil
}

// drawFrame renders a diagonal gradient with a ring that moves each frame
// and the frame number in the top-left corner.
func drawFrame(w, h, frame int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	cx := float64(w) * (0.3 + 0.1*float64(frame%5))
	cy := float64(h) / 2
	r := math.Min(float64(w), float64(h)) / 4
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			t := float64(x+y) / float64(w+h)
			c := color.RGBA{
				R: uint8(40 + t*120),
				G: uint8(60 + t*80),
				B: uint8(110 + t*60),
				A: 0xFF,
			}
			d := math.Hypot(float64(x)-cx, float64(y)-cy)
			if math.Abs(d-r) < 4 {
				c = color.RGBA{R: 0xFF, G: 0xCC, B: 0x00, A: 0xFF}
			}
			img.SetRGBA(x, y, c)
		}
	}
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.White),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(8, 8+basicfont.Face7x13.Ascent),
	}
	d.DrawString(fmt.Sprintf("frame %d", frame))
	return img
}

func savePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
