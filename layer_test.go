package wsi

import (
	"image/color"
	"sync"
	"testing"

	"github.com/gogpu/wsi/internal/vktest"
	"github.com/gogpu/wsi/sink"
	"github.com/gogpu/wsi/vk"
)

type harness struct {
	layer    *Layer
	drv      *vktest.Driver
	instance vk.Instance
	device   vk.Device
}

func newHarness(t *testing.T, opts ...Option) *harness {
	t.Helper()
	l := New(opts...)
	drv := vktest.New()

	instance, res := l.CreateInstance(&vk.InstanceCreateInfo{Next: drv.InstanceChain()}, nil)
	if res != vk.Success {
		t.Fatalf("CreateInstance = %v", res)
	}
	device, res := l.CreateDevice(drv.PhysicalDevices[0], &vk.DeviceCreateInfo{Next: drv.DeviceChain()}, nil)
	if res != vk.Success {
		t.Fatalf("CreateDevice = %v", res)
	}
	return &harness{layer: l, drv: drv, instance: instance, device: device}
}

func (h *harness) surface(t *testing.T) vk.SurfaceKHR {
	t.Helper()
	s, res := h.layer.CreateHeadlessSurface(h.instance, &vk.HeadlessSurfaceCreateInfo{}, nil)
	if res != vk.Success {
		t.Fatalf("CreateHeadlessSurface = %v", res)
	}
	return s
}

func (h *harness) close(t *testing.T) {
	t.Helper()
	h.layer.DestroyDevice(h.device, nil)
	h.layer.DestroyInstance(h.instance, nil)
	if live := h.drv.Live(); live != (vktest.Live{}) {
		t.Errorf("live objects = %+v, want none", live)
	}
	if errs := h.drv.Errors(); len(errs) != 0 {
		t.Errorf("driver errors: %v", errs)
	}
	if n := h.layer.surfaces.Len(); n != 0 {
		t.Errorf("%d surfaces left", n)
	}
	if inst, dev := h.layer.registry.Len(); inst != 0 || dev != 0 {
		t.Errorf("registry holds %d instances, %d devices", inst, dev)
	}
}

func swapchainInfo(surface vk.SurfaceKHR, n, w, h uint32) *vk.SwapchainCreateInfo {
	return &vk.SwapchainCreateInfo{
		Surface:          surface,
		MinImageCount:    n,
		ImageFormat:      vk.FormatB8G8R8A8Unorm,
		ImageColorSpace:  vk.ColorSpaceSRGBNonlinear,
		ImageExtent:      vk.Extent2D{Width: w, Height: h},
		ImageArrayLayers: 1,
		ImageUsage:       vk.ImageUsageColorAttachment,
		PresentMode:      vk.PresentModeFIFO,
	}
}

func TestEnumerateInstanceLayerProperties(t *testing.T) {
	l := New()
	var n uint32
	if res := l.EnumerateInstanceLayerProperties(&n, nil); res != vk.Success || n != 1 {
		t.Fatalf("count query = (%v, %d), want (Success, 1)", res, n)
	}
	props := make([]vk.LayerProperties, n)
	if res := l.EnumerateInstanceLayerProperties(&n, props); res != vk.Success {
		t.Fatalf("EnumerateInstanceLayerProperties = %v", res)
	}
	p := props[0]
	if p.LayerName != LayerName || p.Description != LayerDescription {
		t.Errorf("layer = %q (%q)", p.LayerName, p.Description)
	}
	if p.SpecVersion != LayerSpecVersion || p.ImplementationVersion != LayerImplementationVersion {
		t.Errorf("versions = %#x/%d", p.SpecVersion, p.ImplementationVersion)
	}
}

func TestEnumerateInstanceExtensionProperties(t *testing.T) {
	l := New()

	var n uint32
	out := make([]vk.ExtensionProperties, 4)
	n = uint32(len(out))
	if res := l.EnumerateInstanceExtensionProperties(nil, LayerName, &n, out); res != vk.Success || n != 1 {
		t.Fatalf("own layer = (%v, %d)", res, n)
	}
	if out[0].ExtensionName != vk.KHRSurfaceExtensionName || out[0].SpecVersion != 25 {
		t.Errorf("extension = %+v", out[0])
	}

	if res := l.EnumerateInstanceExtensionProperties(nil, "", &n, nil); res != vk.Success || n != 0 {
		t.Errorf("implicit query without a chain = (%v, %d), want empty", res, n)
	}
	if res := l.EnumerateInstanceExtensionProperties(nil, "VK_LAYER_other", &n, nil); res != vk.ErrorLayerNotPresent {
		t.Errorf("foreign layer without a chain = %v, want ErrorLayerNotPresent", res)
	}

	var forwarded string
	chain := &vk.EnumerateInstanceExtensionPropertiesChain{
		Next: func(layerName string, count *uint32, out []vk.ExtensionProperties) vk.Result {
			forwarded = layerName
			return vk.Enumerate([]vk.ExtensionProperties{{ExtensionName: "VK_other"}}, count, out)
		},
	}
	n = uint32(len(out))
	if res := l.EnumerateInstanceExtensionProperties(chain, "VK_LAYER_other", &n, out); res != vk.Success || n != 1 {
		t.Fatalf("forwarded = (%v, %d)", res, n)
	}
	if forwarded != "VK_LAYER_other" || out[0].ExtensionName != "VK_other" {
		t.Errorf("forwarded %q, got %+v", forwarded, out[0])
	}
}

func TestEnumerateDeviceExtensionProperties(t *testing.T) {
	h := newHarness(t)
	defer h.close(t)
	pd := h.drv.PhysicalDevices[0]

	out := make([]vk.ExtensionProperties, 2)
	n := uint32(len(out))
	if res := h.layer.EnumerateDeviceExtensionProperties(pd, LayerName, &n, out); res != vk.Success || n != 1 {
		t.Fatalf("own layer = (%v, %d)", res, n)
	}
	if out[0].ExtensionName != vk.KHRSwapchainExtensionName || out[0].SpecVersion != 70 {
		t.Errorf("extension = %+v", out[0])
	}

	n = uint32(len(out))
	if res := h.layer.EnumerateDeviceExtensionProperties(pd, "", &n, out); res != vk.Success || n != 1 {
		t.Fatalf("driver query = (%v, %d)", res, n)
	}
	if out[0].ExtensionName != vk.KHRExternalMemoryFDExtensionName {
		t.Errorf("driver extension = %+v", out[0])
	}
}

func TestCreateInstanceWithoutLink(t *testing.T) {
	l := New()
	if _, res := l.CreateInstance(&vk.InstanceCreateInfo{}, nil); res != vk.ErrorInitializationFailed {
		t.Errorf("CreateInstance = %v, want ErrorInitializationFailed", res)
	}
	if _, res := l.CreateDevice(1, &vk.DeviceCreateInfo{}, nil); res != vk.ErrorInitializationFailed {
		t.Errorf("CreateDevice = %v, want ErrorInitializationFailed", res)
	}
}

func TestCreateInstanceForwardsFailure(t *testing.T) {
	l := New()
	drv := vktest.New()
	drv.Fail("vkCreateInstance", vk.ErrorOutOfHostMemory)
	if _, res := l.CreateInstance(&vk.InstanceCreateInfo{Next: drv.InstanceChain()}, nil); res != vk.ErrorOutOfHostMemory {
		t.Errorf("CreateInstance = %v, want ErrorOutOfHostMemory", res)
	}
}

func TestGetInstanceProcAddr(t *testing.T) {
	h := newHarness(t)
	defer h.close(t)

	if _, ok := vk.ProcAs[vk.CreateInstanceFunc](h.layer.GetInstanceProcAddr(vk.NullHandle, "vkCreateInstance")); !ok {
		t.Error("vkCreateInstance not intercepted")
	}
	if _, ok := vk.ProcAs[vk.CreateSwapchainFunc](h.layer.GetInstanceProcAddr(h.instance, "vkCreateSwapchainKHR")); !ok {
		t.Error("device-level names should resolve through the instance")
	}
	if _, ok := vk.ProcAs[vk.EnumerateInstanceExtensionPropertiesFunc](
		h.layer.GetInstanceProcAddr(vk.NullHandle, "vkEnumerateInstanceExtensionProperties")); !ok {
		t.Error("vkEnumerateInstanceExtensionProperties not intercepted")
	}
	if _, ok := vk.ProcAs[vk.EnumeratePhysicalDevicesFunc](h.layer.GetInstanceProcAddr(h.instance, "vkEnumeratePhysicalDevices")); !ok {
		t.Error("vkEnumeratePhysicalDevices not forwarded")
	}
	if p := h.layer.GetInstanceProcAddr(vk.NullHandle, "vkEnumeratePhysicalDevices"); p != nil {
		t.Errorf("unknown instance resolved %T", p)
	}
	if p := h.layer.GetInstanceProcAddr(h.instance, "vkNoSuchFunction"); p != nil {
		t.Errorf("unknown name resolved %T", p)
	}
}

func TestGetDeviceProcAddr(t *testing.T) {
	h := newHarness(t)
	defer h.close(t)

	intercepted := []string{
		"vkGetDeviceProcAddr", "vkDestroyDevice", "vkCreateSwapchainKHR", "vkDestroySwapchainKHR",
		"vkGetSwapchainImagesKHR", "vkAcquireNextImageKHR", "vkAcquireNextImage2KHR", "vkQueuePresentKHR",
		"vkGetDeviceGroupSurfacePresentModesKHR",
	}
	for _, name := range intercepted {
		if _, ok := h.layer.deviceProcs()[name]; !ok {
			t.Errorf("%s missing from the device table", name)
		}
		if h.layer.GetDeviceProcAddr(vk.NullHandle, name) == nil {
			t.Errorf("%s not intercepted", name)
		}
	}
	if _, ok := vk.ProcAs[vk.CreateImageFunc](h.layer.GetDeviceProcAddr(h.device, "vkCreateImage")); !ok {
		t.Error("vkCreateImage not forwarded")
	}
	if p := h.layer.GetDeviceProcAddr(vk.NullHandle, "vkCreateImage"); p != nil {
		t.Errorf("unknown device resolved %T", p)
	}
	if p := h.layer.GetDeviceProcAddr(h.device, "vkCreateInstance"); p != nil {
		t.Errorf("instance-level name resolved for a device: %T", p)
	}
}

func TestSurfaceQueries(t *testing.T) {
	h := newHarness(t)
	defer h.close(t)
	pd := h.drv.PhysicalDevices[0]
	s := h.surface(t)

	var caps vk.SurfaceCapabilities
	if res := h.layer.GetPhysicalDeviceSurfaceCapabilities(pd, s, &caps); res != vk.Success {
		t.Fatalf("capabilities = %v", res)
	}
	if caps.CurrentExtent != (vk.Extent2D{Width: vk.UndefinedExtent, Height: vk.UndefinedExtent}) {
		t.Errorf("current extent without a sink = %+v", caps.CurrentExtent)
	}

	k := sink.NewImageSink(320, 200)
	defer k.Close()
	if err := h.layer.SetBitmapHook(s, k); err != nil {
		t.Fatal(err)
	}
	h.layer.GetPhysicalDeviceSurfaceCapabilities(pd, s, &caps)
	if caps.CurrentExtent != (vk.Extent2D{Width: 320, Height: 200}) {
		t.Errorf("current extent = %+v, want 320x200", caps.CurrentExtent)
	}

	var n uint32
	if res := h.layer.GetPhysicalDeviceSurfaceFormats(pd, s, &n, nil); res != vk.Success || n != 4 {
		t.Errorf("format count = (%v, %d), want 4", res, n)
	}
	if res := h.layer.GetPhysicalDeviceSurfacePresentModes(pd, s, &n, nil); res != vk.Success || n != 2 {
		t.Errorf("present mode count = (%v, %d), want 2", res, n)
	}
	rects := make([]vk.Rect2D, 1)
	n = 1
	if res := h.layer.GetPhysicalDevicePresentRectangles(pd, s, &n, rects); res != vk.Success {
		t.Errorf("present rectangles = %v", res)
	}
	if rects[0].Extent != caps.CurrentExtent {
		t.Errorf("rectangle = %+v", rects[0])
	}
	if ok, res := h.layer.GetPhysicalDeviceSurfaceSupport(pd, 0, s); !ok || res != vk.Success {
		t.Errorf("support = (%v, %v)", ok, res)
	}
	var modes vk.DeviceGroupPresentModeFlags
	if res := h.layer.GetDeviceGroupSurfacePresentModes(h.device, s, &modes); res != vk.Success ||
		modes != vk.DeviceGroupPresentModeLocal {
		t.Errorf("group present modes = (%v, %#x)", res, modes)
	}

	info := &vk.PhysicalDeviceSurfaceInfo2{Surface: s}
	if res := h.layer.GetPhysicalDeviceSurfaceCapabilities2(pd, info, &vk.SurfaceCapabilities2{}); res != vk.NotReady {
		t.Errorf("capabilities2 = %v, want NotReady", res)
	}
	if res := h.layer.GetPhysicalDeviceSurfaceFormats2(pd, info, &n, nil); res != vk.NotReady {
		t.Errorf("formats2 = %v, want NotReady", res)
	}

	h.layer.DestroySurface(h.instance, s, nil)
	if res := h.layer.GetPhysicalDeviceSurfaceCapabilities(pd, s, &caps); res != vk.ErrorSurfaceLost {
		t.Errorf("destroyed surface = %v, want ErrorSurfaceLost", res)
	}
	if err := h.layer.SetBitmapHook(s, k); vk.ResultOf(err) != vk.ErrorSurfaceLost {
		t.Errorf("SetBitmapHook on destroyed surface = %v", err)
	}
}

func TestCreateSurfaceUnknownInstance(t *testing.T) {
	l := New()
	if _, res := l.CreateHeadlessSurface(42, &vk.HeadlessSurfaceCreateInfo{}, nil); res != vk.ErrorInitializationFailed {
		t.Errorf("CreateHeadlessSurface = %v, want ErrorInitializationFailed", res)
	}
}

// TestEndToEnd drives two 64x64 images through the proc-address tables the
// way a loader-dispatched application would.
func TestEndToEnd(t *testing.T) {
	h := newHarness(t)
	gipa := h.layer.GetInstanceProcAddr
	gdpa, _ := vk.ProcAs[vk.GetDeviceProcAddrFunc](gipa(h.instance, "vkGetDeviceProcAddr"))

	createSurface, _ := vk.ProcAs[vk.CreateHeadlessSurfaceFunc](gipa(h.instance, "vkCreateHeadlessSurfaceEXT"))
	destroySurface, _ := vk.ProcAs[vk.DestroySurfaceFunc](gipa(h.instance, "vkDestroySurfaceKHR"))
	createSwapchain, _ := vk.ProcAs[vk.CreateSwapchainFunc](gdpa(h.device, "vkCreateSwapchainKHR"))
	destroySwapchain, _ := vk.ProcAs[vk.DestroySwapchainFunc](gdpa(h.device, "vkDestroySwapchainKHR"))
	getImages, _ := vk.ProcAs[vk.GetSwapchainImagesFunc](gdpa(h.device, "vkGetSwapchainImagesKHR"))
	acquire, _ := vk.ProcAs[vk.AcquireNextImageFunc](gdpa(h.device, "vkAcquireNextImageKHR"))
	present, _ := vk.ProcAs[vk.QueuePresentFunc](gdpa(h.device, "vkQueuePresentKHR"))
	getQueue, _ := vk.ProcAs[vk.GetDeviceQueueFunc](gdpa(h.device, "vkGetDeviceQueue"))

	s, res := createSurface(h.instance, &vk.HeadlessSurfaceCreateInfo{}, nil)
	if res != vk.Success {
		t.Fatalf("create surface = %v", res)
	}
	k := sink.NewImageSink(64, 64)
	if err := h.layer.SetBitmapHook(s, k); err != nil {
		t.Fatal(err)
	}

	sc, res := createSwapchain(h.device, swapchainInfo(s, 2, 64, 64), nil)
	if res != vk.Success {
		t.Fatalf("create swapchain = %v", res)
	}
	var n uint32
	if res := getImages(h.device, sc, &n, nil); res != vk.Success || n != 2 {
		t.Fatalf("image count = (%v, %d), want 2", res, n)
	}
	images := make([]vk.Image, n)
	if res := getImages(h.device, sc, &n, images); res != vk.Success {
		t.Fatalf("images = %v", res)
	}

	queue := getQueue(h.device, 0, 0)
	for frame := 0; frame < 3; frame++ {
		idx, res := acquire(h.device, sc, vk.InfiniteTimeout, vk.NullHandle, vk.NullHandle)
		if res != vk.Success {
			t.Fatalf("frame %d: acquire = %v", frame, res)
		}
		shade := uint8(0x20 * (frame + 1))
		if err := h.drv.Fill(images[idx], func(x, y int) [4]byte {
			return [4]byte{uint8(x), uint8(y), shade, 0xFF}
		}); err != nil {
			t.Fatal(err)
		}
		results := make([]vk.Result, 1)
		res = present(queue, &vk.PresentInfo{
			Swapchains:   []vk.SwapchainKHR{sc},
			ImageIndices: []uint32{idx},
			Results:      results,
		})
		if res != vk.Success || results[0] != vk.Success {
			t.Fatalf("frame %d: present = %v (%v)", frame, res, results[0])
		}
		want := color.RGBA{10, 50, shade, 0xFF}
		if got := k.Frame().RGBAAt(10, 50); got != want {
			t.Fatalf("frame %d: pixel = %v, want %v", frame, got, want)
		}
	}
	if k.Frames() != 3 {
		t.Errorf("Frames = %d, want 3", k.Frames())
	}

	destroySwapchain(h.device, sc, nil)
	if _, res := acquire(h.device, sc, 0, vk.NullHandle, vk.NullHandle); res != vk.ErrorOutOfDate {
		t.Errorf("acquire after destroy = %v, want ErrorOutOfDate", res)
	}
	destroySurface(h.instance, s, nil)
	k.Close()
	h.close(t)
}

func TestSwapchainProperties(t *testing.T) {
	h := newHarness(t)
	defer h.close(t)
	s := h.surface(t)
	k := sink.NewImageSink(32, 32)
	defer k.Close()
	h.layer.SetBitmapHook(s, k)

	sc, res := h.layer.CreateSwapchain(h.device, swapchainInfo(s, 2, 32, 32), nil)
	if res != vk.Success {
		t.Fatalf("CreateSwapchain = %v", res)
	}

	// Exhaustion; the third acquire must not block with a zero timeout.
	for i := 0; i < 2; i++ {
		if _, res := h.layer.AcquireNextImage(h.device, sc, vk.InfiniteTimeout, vk.NullHandle, vk.NullHandle); res != vk.Success {
			t.Fatalf("acquire %d = %v", i, res)
		}
	}
	if _, res := h.layer.AcquireNextImage2(h.device, &vk.AcquireNextImageInfo{Swapchain: sc}); res != vk.NotReady {
		t.Errorf("acquire of exhausted pool = %v, want NotReady", res)
	}

	// Suboptimal once the consumer changes size.
	k.Resize(48, 48)
	queue := h.drv.Queue()
	res = h.layer.QueuePresent(queue, &vk.PresentInfo{Swapchains: []vk.SwapchainKHR{sc}, ImageIndices: []uint32{0}})
	if res != vk.Suboptimal {
		t.Errorf("present after resize = %v, want Suboptimal", res)
	}
	if _, res := h.layer.AcquireNextImage(h.device, sc, 0, vk.NullHandle, vk.NullHandle); res != vk.Suboptimal {
		t.Errorf("acquire after resize = %v, want Suboptimal", res)
	}

	// Re-presenting an image that is not checked out is rejected.
	h.layer.QueuePresent(queue, &vk.PresentInfo{Swapchains: []vk.SwapchainKHR{sc}, ImageIndices: []uint32{0}})
	res = h.layer.QueuePresent(queue, &vk.PresentInfo{Swapchains: []vk.SwapchainKHR{sc}, ImageIndices: []uint32{0}})
	if res != vk.ErrorValidationFailed {
		t.Errorf("present of a free image = %v, want ErrorValidationFailed", res)
	}
	h.layer.DestroySwapchain(h.device, sc, nil)
	h.layer.DestroySurface(h.instance, s, nil)
}

func TestRecreateSwapchain(t *testing.T) {
	h := newHarness(t)
	defer h.close(t)
	s := h.surface(t)

	first, res := h.layer.CreateSwapchain(h.device, swapchainInfo(s, 1, 16, 16), nil)
	if res != vk.Success {
		t.Fatalf("first = %v", res)
	}
	info := swapchainInfo(s, 1, 16, 16)
	info.OldSwapchain = first
	second, res := h.layer.CreateSwapchain(h.device, info, nil)
	if res != vk.Success {
		t.Fatalf("second = %v", res)
	}
	if _, res := h.layer.AcquireNextImage(h.device, first, 0, vk.NullHandle, vk.NullHandle); res != vk.ErrorOutOfDate {
		t.Errorf("acquire on retired = %v, want ErrorOutOfDate", res)
	}

	// first is no longer live.
	info.OldSwapchain = first
	if _, res := h.layer.CreateSwapchain(h.device, info, nil); res != vk.ErrorNativeWindowInUse {
		t.Errorf("stale predecessor = %v, want ErrorNativeWindowInUse", res)
	}

	// Without a predecessor the live swapchain is overridden.
	third, res := h.layer.CreateSwapchain(h.device, swapchainInfo(s, 1, 16, 16), nil)
	if res != vk.Success {
		t.Fatalf("override = %v", res)
	}
	if _, res := h.layer.AcquireNextImage(h.device, second, 0, vk.NullHandle, vk.NullHandle); res != vk.ErrorOutOfDate {
		t.Errorf("acquire on overridden = %v, want ErrorOutOfDate", res)
	}
	if _, res := h.layer.AcquireNextImage(h.device, third, 0, vk.NullHandle, vk.NullHandle); res != vk.Success {
		t.Errorf("acquire on live = %v", res)
	}

	// DestroyDevice cleans up whatever the application left behind.
	h.layer.DestroySwapchain(h.device, first, nil)
	h.layer.DestroySurface(h.instance, s, nil)
}

func TestCreateSwapchainErrors(t *testing.T) {
	h := newHarness(t)
	defer h.close(t)
	s := h.surface(t)

	if _, res := h.layer.CreateSwapchain(99, swapchainInfo(s, 1, 8, 8), nil); res != vk.ErrorInitializationFailed {
		t.Errorf("unknown device = %v, want ErrorInitializationFailed", res)
	}
	if _, res := h.layer.CreateSwapchain(h.device, swapchainInfo(99, 1, 8, 8), nil); res != vk.ErrorSurfaceLost {
		t.Errorf("unknown surface = %v, want ErrorSurfaceLost", res)
	}

	h.drv.FailAfter("vkCreateImage", 1, vk.ErrorOutOfDeviceMemory)
	if _, res := h.layer.CreateSwapchain(h.device, swapchainInfo(s, 2, 8, 8), nil); res != vk.ErrorOutOfDeviceMemory {
		t.Errorf("allocation failure = %v, want ErrorOutOfDeviceMemory", res)
	}
	h.drv.Heal("vkCreateImage")
	if n := h.layer.swapchains.Len(); n != 0 {
		t.Errorf("%d swapchains published after failure", n)
	}

	var n uint32
	if res := h.layer.GetSwapchainImages(h.device, 99, &n, nil); res != vk.ErrorOutOfDate {
		t.Errorf("images of unknown swapchain = %v, want ErrorOutOfDate", res)
	}
	h.layer.DestroySwapchain(h.device, 99, nil)
	h.layer.DestroySurface(h.instance, s, nil)
}

func TestQueuePresentBatch(t *testing.T) {
	h := newHarness(t)
	defer h.close(t)
	a, b := h.surface(t), h.surface(t)

	sa, _ := h.layer.CreateSwapchain(h.device, swapchainInfo(a, 1, 8, 8), nil)
	sb, _ := h.layer.CreateSwapchain(h.device, swapchainInfo(b, 1, 8, 8), nil)
	ia, _ := h.layer.AcquireNextImage(h.device, sa, 0, vk.NullHandle, vk.NullHandle)
	ib, _ := h.layer.AcquireNextImage(h.device, sb, 0, vk.NullHandle, vk.NullHandle)

	const sem vk.Semaphore = 0x77
	h.drv.SignalSemaphore(sem)
	results := make([]vk.Result, 3)
	res := h.layer.QueuePresent(h.drv.Queue(), &vk.PresentInfo{
		WaitSemaphores: []vk.Semaphore{sem},
		Swapchains:     []vk.SwapchainKHR{sa, 99, sb},
		ImageIndices:   []uint32{ia, 0, ib},
		Results:        results,
	})
	if res != vk.ErrorOutOfDate {
		t.Errorf("overall = %v, want the first failure (ErrorOutOfDate)", res)
	}
	want := []vk.Result{vk.Success, vk.ErrorOutOfDate, vk.Success}
	for i := range want {
		if results[i] != want[i] {
			t.Errorf("results[%d] = %v, want %v", i, results[i], want[i])
		}
	}
	if h.drv.SemaphoreSignaled(sem) {
		t.Error("wait semaphore not consumed")
	}

	if res := h.layer.QueuePresent(h.drv.Queue(), &vk.PresentInfo{Swapchains: []vk.SwapchainKHR{sa}}); res != vk.ErrorValidationFailed {
		t.Errorf("missing image index = %v, want ErrorValidationFailed", res)
	}
	h.layer.DestroySwapchain(h.device, sa, nil)
	h.layer.DestroySwapchain(h.device, sb, nil)
	h.layer.DestroySurface(h.instance, a, nil)
	h.layer.DestroySurface(h.instance, b, nil)
}

func TestQueuePresentErrorOutranksSuboptimal(t *testing.T) {
	h := newHarness(t)
	defer h.close(t)
	s := h.surface(t)
	k := sink.NewImageSink(8, 8)
	defer k.Close()
	h.layer.SetBitmapHook(s, k)

	sc, res := h.layer.CreateSwapchain(h.device, swapchainInfo(s, 1, 8, 8), nil)
	if res != vk.Success {
		t.Fatalf("CreateSwapchain = %v", res)
	}
	idx, _ := h.layer.AcquireNextImage(h.device, sc, 0, vk.NullHandle, vk.NullHandle)
	k.Resize(16, 16)

	results := make([]vk.Result, 2)
	res = h.layer.QueuePresent(h.drv.Queue(), &vk.PresentInfo{
		Swapchains:   []vk.SwapchainKHR{sc, 99},
		ImageIndices: []uint32{idx, 0},
		Results:      results,
	})
	if res != vk.ErrorOutOfDate {
		t.Errorf("overall = %v, want ErrorOutOfDate", res)
	}
	if results[0] != vk.Suboptimal || results[1] != vk.ErrorOutOfDate {
		t.Errorf("results = %v, want [Suboptimal ErrorOutOfDate]", results)
	}
	h.layer.DestroySwapchain(h.device, sc, nil)
	h.layer.DestroySurface(h.instance, s, nil)
}

func TestConcurrentSwapchains(t *testing.T) {
	h := newHarness(t)
	defer h.close(t)

	const workers = 8
	surfaces := make([]vk.SurfaceKHR, workers)
	for i := range surfaces {
		surfaces[i] = h.surface(t)
	}

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(s vk.SurfaceKHR) {
			defer wg.Done()
			sc, res := h.layer.CreateSwapchain(h.device, swapchainInfo(s, 2, 8, 8), nil)
			if res != vk.Success {
				t.Errorf("CreateSwapchain = %v", res)
				return
			}
			for frame := 0; frame < 10; frame++ {
				idx, res := h.layer.AcquireNextImage(h.device, sc, vk.InfiniteTimeout, vk.NullHandle, vk.NullHandle)
				if res != vk.Success {
					t.Errorf("acquire = %v", res)
					return
				}
				h.layer.QueuePresent(h.drv.Queue(), &vk.PresentInfo{
					Swapchains:   []vk.SwapchainKHR{sc},
					ImageIndices: []uint32{idx},
				})
			}
			h.layer.DestroySwapchain(h.device, sc, nil)
		}(surfaces[i])
	}
	wg.Wait()
	for _, s := range surfaces {
		h.layer.DestroySurface(h.instance, s, nil)
	}
}

func TestDestroyInstanceDropsSurfaces(t *testing.T) {
	h := newHarness(t)
	h.surface(t)
	h.surface(t)
	if n := h.layer.surfaces.Len(); n != 2 {
		t.Fatalf("surfaces = %d, want 2", n)
	}
	// close checks that DestroyInstance removed both.
	h.close(t)
}
