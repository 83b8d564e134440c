package renderer

import (
	"errors"
	"fmt"
	"log"
	"runtime"
	"sync"

	"github.com/Carmen-Shannon/oxy-cave/common"
	"github.com/Carmen-Shannon/oxy-cave/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-cave/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-cave/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// wallFormat is the color format of every offscreen target. It matches the sRGB textures and
// surface so sampling a wall in the composite pass is a straight copy.
const wallFormat = wgpu.TextureFormatRGBA8UnormSrgb

const depthFormat = wgpu.TextureFormatDepth24Plus

type wgpuRendererBackendImpl struct {
	mu     *sync.Mutex
	device *wgpu.Device
	queue  *wgpu.Queue

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	surface  *wgpu.Surface

	surfaceFormat    *wgpu.TextureFormat
	surfaceWidth     int
	surfaceHeight    int
	msaaTexture      *wgpu.Texture
	msaaTextureView  *wgpu.TextureView
	depthTexture     *wgpu.Texture
	depthTextureView *wgpu.TextureView

	presentMode wgpu.PresentMode // defaults to PresentModeImmediate (Uncapped)
	sampleCount MSAASampleCount  // MSAA sample count for the mirror window passes

	// layouts caches bind group layouts by descriptor label so pipelines and bind groups share them.
	layouts map[string]*wgpu.BindGroupLayout

	// uniformRing holds the dynamic-offset draw uniform buffer and its group 0 bind group.
	uniformRing bind_group_provider.BindGroupProvider
	// lineRing holds the per-frame debug line vertex buffer.
	lineRing bind_group_provider.BindGroupProvider

	// Frame state: one encoder per frame, at most one open pass.
	frameEncoder *wgpu.CommandEncoder
	framePass    *wgpu.RenderPassEncoder
	frameSurface *wgpu.Texture
	frameView    *wgpu.TextureView
}

type wgpuRendererBackend interface {
	// ConfigureSurface is a wrapper for boilerplate logic required when calling ConfigureSurface on a surface.
	// It also recreates the MSAA and depth attachments of the mirror window.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	ConfigureSurface(width, height int)

	// SetPresentMode sets the surface present mode which controls how frames are delivered to the display.
	//
	// Parameters:
	//   - mode: the PresentMode to use (VSync or Uncapped)
	SetPresentMode(mode PresentMode)

	// SurfaceSize returns the size the surface was last configured with.
	SurfaceSize() (width, height int)

	// CreateStagingBuffers allocates the uniform ring buffer with its bind group and the line vertex buffer.
	//
	// Parameters:
	//   - uniformSize: byte size of the uniform ring
	//   - lineSize: byte size of the line vertex ring
	//
	// Returns:
	//   - error: an error if allocation fails
	CreateStagingBuffers(uniformSize, lineSize uint64) error

	// RegisterRenderPipeline creates the shader modules, pipeline layout and one render pipeline per
	// pass target, and stores them on the Pipeline.
	//
	// Parameters:
	//   - p: the pipeline description
	//
	// Returns:
	//   - error: an error if the pipeline could not be created, otherwise nil
	RegisterRenderPipeline(p pipeline.Pipeline) error

	// CreateRenderTarget allocates a sampled color texture and a depth texture of the given size.
	//
	// Parameters:
	//   - label: debug label
	//   - width, height: size in pixels
	//
	// Returns:
	//   - RenderTarget: the target
	//   - error: an error if allocation fails
	CreateRenderTarget(label string, width, height int) (RenderTarget, error)

	// CreateTexture uploads RGBA8 pixels and creates the texture's sampler and bind group.
	//
	// Parameters:
	//   - label: debug label
	//   - data: the pixel data
	//   - sampler: sampler configuration, zero fields take defaults
	//
	// Returns:
	//   - Texture: the texture
	//   - error: an error if allocation fails
	CreateTexture(label string, data common.TextureStagingData, sampler common.SamplerStagingData) (Texture, error)

	// CreateMesh uploads vertex and index data.
	//
	// Parameters:
	//   - label: debug label
	//   - vertexData: raw Vertex bytes
	//   - indexData: raw uint32 index bytes
	//   - indexCount: number of indices
	//
	// Returns:
	//   - Mesh: the mesh
	//   - error: an error if allocation fails
	CreateMesh(label string, vertexData, indexData []byte, indexCount int) (Mesh, error)

	// BeginFrame acquires the next swapchain texture and creates the frame's command encoder.
	//
	// Returns:
	//   - error: an error if the swapchain texture could not be acquired
	BeginFrame() error

	// BeginTargetPass begins a pass on an offscreen target that clears color and depth.
	//
	// Parameters:
	//   - target: the render target
	//   - clear: the clear color
	//
	// Returns:
	//   - error: ErrInvalidResource if the target was not created by this backend
	BeginTargetPass(target RenderTarget, clear Color) error

	// BeginSurfacePass begins a pass on the swapchain texture and restricts drawing to viewport.
	//
	// Parameters:
	//   - viewport: the drawing rectangle
	//   - clear: the clear color, or nil to keep the existing contents
	//
	// Returns:
	//   - error: an error if no frame is in progress
	BeginSurfacePass(viewport Viewport, clear *Color) error

	// DrawMesh encodes an indexed draw of a textured mesh in the open pass.
	//
	// Parameters:
	//   - p: the textured Pipeline
	//   - target: the kind of the open pass
	//   - mesh: the mesh
	//   - texture: the texture bound at group 1
	//   - uniformOffset: the dynamic offset of the draw uniform
	//
	// Returns:
	//   - error: ErrInvalidResource for foreign handles, or a missing pipeline
	DrawMesh(p pipeline.Pipeline, target pipeline.PassTarget, mesh Mesh, texture Texture, uniformOffset uint32) error

	// DrawLines encodes a non-indexed line list draw from the line ring in the open pass.
	//
	// Parameters:
	//   - p: the line Pipeline
	//   - target: the kind of the open pass
	//   - uniformOffset: the dynamic offset of the draw uniform
	//   - firstVertex: the first vertex in the line ring
	//   - vertexCount: the number of vertices
	//
	// Returns:
	//   - error: a missing pipeline
	DrawLines(p pipeline.Pipeline, target pipeline.PassTarget, uniformOffset, firstVertex, vertexCount uint32) error

	// EndPass ends the open pass.
	EndPass()

	// EndFrame writes the staged uniform and line data, then finishes and submits the command buffer.
	//
	// Parameters:
	//   - uniformData: staged draw uniforms, written at offset 0 of the uniform ring
	//   - lineData: staged line vertices, written at offset 0 of the line ring
	//
	// Returns:
	//   - error: an error if the command buffer could not be finished
	EndFrame(uniformData, lineData []byte) error

	// Present presents the surface to the display and releases the swapchain texture.
	// Must be called once per frame after EndFrame.
	Present()

	// Release frees every GPU object owned by the backend.
	Release()
}

var _ RendererBackend = &wgpuRendererBackendImpl{}

func newWGPURendererBackend(surfaceDescriptor *wgpu.SurfaceDescriptor, forceFallbackAdapter bool, sampleCount MSAASampleCount) wgpuRendererBackend {
	runtime.LockOSThread()
	w := &wgpuRendererBackendImpl{
		mu:          &sync.Mutex{},
		instance:    wgpu.CreateInstance(nil),
		presentMode: wgpu.PresentModeImmediate,
		sampleCount: sampleCount,
		layouts:     make(map[string]*wgpu.BindGroupLayout),
	}
	w.surface = w.instance.CreateSurface(surfaceDescriptor)

	a, err := w.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: forceFallbackAdapter,
		CompatibleSurface:    w.surface,
	})
	if err != nil {
		panic(err)
	}
	w.adapter = a

	d, err := a.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Main Device",
		RequiredLimits: &wgpu.RequiredLimits{
			Limits: wgpu.DefaultLimits(),
		},
	})
	if err != nil {
		panic(err)
	}
	w.device = d
	w.queue = d.GetQueue()

	log.Printf("[Renderer] adapter ready (fallback=%t, msaa=%d)", forceFallbackAdapter, sampleCount)
	return w
}

func (b *wgpuRendererBackendImpl) ConfigureSurface(width, height int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.surfaceFormat == nil {
		capabilities := b.surface.GetCapabilities(b.adapter)
		format := capabilities.Formats[0]
		b.surfaceFormat = &format
		b.surface.Configure(b.adapter, b.device, &wgpu.SurfaceConfiguration{
			Usage:       wgpu.TextureUsageRenderAttachment,
			Format:      format,
			Width:       uint32(width),
			Height:      uint32(height),
			PresentMode: b.presentMode,
			AlphaMode:   capabilities.AlphaModes[0],
		})
	} else {
		capabilities := b.surface.GetCapabilities(b.adapter)
		b.surface.Configure(b.adapter, b.device, &wgpu.SurfaceConfiguration{
			Usage:       wgpu.TextureUsageRenderAttachment,
			Format:      *b.surfaceFormat,
			Width:       uint32(width),
			Height:      uint32(height),
			PresentMode: b.presentMode,
			AlphaMode:   capabilities.AlphaModes[0],
		})
	}
	b.surfaceWidth = width
	b.surfaceHeight = height

	b.releaseSurfaceAttachments()

	count := uint32(b.sampleCount)
	if count > 1 {
		// Create the MSAA texture that eye passes draw into; the resolved
		// result is written to the swapchain view as the ResolveTarget.
		tex, view, err := b.createAttachment("MSAA Texture", width, height, count, *b.surfaceFormat, wgpu.TextureUsageRenderAttachment)
		if err != nil {
			panic(err)
		}
		b.msaaTexture, b.msaaTextureView = tex, view
	}

	// Depth texture sample count must match the color attachment.
	tex, view, err := b.createAttachment("Depth Texture", width, height, count, depthFormat, wgpu.TextureUsageRenderAttachment)
	if err != nil {
		panic(err)
	}
	b.depthTexture, b.depthTextureView = tex, view
}

func (b *wgpuRendererBackendImpl) createAttachment(label string, width, height int, samples uint32, format wgpu.TextureFormat, usage wgpu.TextureUsage) (*wgpu.Texture, *wgpu.TextureView, error) {
	tex, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: label,
		Size: wgpu.Extent3D{
			Width:              uint32(width),
			Height:             uint32(height),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   samples,
		Dimension:     wgpu.TextureDimension2D,
		Format:        format,
		Usage:         usage,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create %s: %w", label, err)
	}
	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return nil, nil, fmt.Errorf("failed to create %s view: %w", label, err)
	}
	return tex, view, nil
}

func (b *wgpuRendererBackendImpl) releaseSurfaceAttachments() {
	if b.msaaTextureView != nil {
		b.msaaTextureView.Release()
		b.msaaTextureView = nil
	}
	if b.msaaTexture != nil {
		b.msaaTexture.Release()
		b.msaaTexture = nil
	}
	if b.depthTextureView != nil {
		b.depthTextureView.Release()
		b.depthTextureView = nil
	}
	if b.depthTexture != nil {
		b.depthTexture.Release()
		b.depthTexture = nil
	}
}

func (b *wgpuRendererBackendImpl) SetPresentMode(mode PresentMode) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch mode {
	case PresentModeVSync:
		b.presentMode = wgpu.PresentModeFifo
	case PresentModeUncapped:
		fallthrough
	default:
		b.presentMode = wgpu.PresentModeImmediate
	}
}

func (b *wgpuRendererBackendImpl) SurfaceSize() (int, int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.surfaceWidth, b.surfaceHeight
}

// layout returns the cached bind group layout for a descriptor, creating it on first use.
func (b *wgpuRendererBackendImpl) layout(desc wgpu.BindGroupLayoutDescriptor) (*wgpu.BindGroupLayout, error) {
	if l, ok := b.layouts[desc.Label]; ok {
		return l, nil
	}
	l, err := b.device.CreateBindGroupLayout(&desc)
	if err != nil {
		return nil, fmt.Errorf("failed to create bind group layout %q: %w", desc.Label, err)
	}
	b.layouts[desc.Label] = l
	return l, nil
}

func (b *wgpuRendererBackendImpl) CreateStagingBuffers(uniformSize, lineSize uint64) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	layout, err := b.layout(drawGroupLayout)
	if err != nil {
		return err
	}

	uniformBuf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Uniform Ring Buffer",
		Size:  uniformSize,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return err
	}
	b.uniformRing = bind_group_provider.NewBindGroupProvider("Uniform Ring", bind_group_provider.WithBuffer(0, uniformBuf))

	bindGroup, err := b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "Uniform Ring Bind Group",
		Layout: layout,
		Entries: []wgpu.BindGroupEntry{
			{
				Binding: 0,
				Buffer:  uniformBuf,
				Offset:  0,
				Size:    DrawUniformSize,
			},
		},
	})
	if err != nil {
		return err
	}
	b.uniformRing.SetBindGroup(bindGroup)

	lineBuf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Line Ring Buffer",
		Size:  lineSize,
		Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return err
	}
	b.lineRing = bind_group_provider.NewBindGroupProvider("Line Ring", bind_group_provider.WithVertexBuffer(lineBuf, int(lineSize/LineVertexStride)))
	return nil
}

func (b *wgpuRendererBackendImpl) RegisterRenderPipeline(p pipeline.Pipeline) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if p.Shader(shader.ShaderTypeVertex) == nil || p.Shader(shader.ShaderTypeFragment) == nil {
		return errors.New("both vertex and fragment shaders must be set to create a render pipeline")
	}
	if b.surfaceFormat == nil {
		return errors.New("surface must be configured before registering render pipelines")
	}

	vertexShader := p.Shader(shader.ShaderTypeVertex)
	fragmentShader := p.Shader(shader.ShaderTypeFragment)

	vs, err := b.device.CreateShaderModule(vertexShader.Module())
	if err != nil {
		return err
	}
	fs, err := b.device.CreateShaderModule(fragmentShader.Module())
	if err != nil {
		return err
	}

	bindGroupLayouts := make([]*wgpu.BindGroupLayout, 0, len(p.BindGroupLayouts()))
	for _, desc := range p.BindGroupLayouts() {
		l, layoutErr := b.layout(desc)
		if layoutErr != nil {
			return layoutErr
		}
		bindGroupLayouts = append(bindGroupLayouts, l)
	}

	pipelineLayout, err := b.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            p.PipelineKey(),
		BindGroupLayouts: bindGroupLayouts,
	})
	if err != nil {
		return err
	}

	for _, target := range pipeline.PassTargets {
		format := wallFormat
		samples := uint32(1)
		label := p.PipelineKey() + " Offscreen Pipeline"
		if target == pipeline.PassTargetSurface {
			format = *b.surfaceFormat
			samples = uint32(b.sampleCount)
			label = p.PipelineKey() + " Surface Pipeline"
		}

		colorTarget := wgpu.ColorTargetState{
			Format:    format,
			WriteMask: p.WriteMask(),
		}
		if p.BlendEnabled() {
			colorTarget.Blend = p.BlendState()
		}

		depthCompare := wgpu.CompareFunctionLess
		if !p.DepthTestEnabled() {
			depthCompare = wgpu.CompareFunctionAlways
		}

		created, createErr := b.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
			Label:  label,
			Layout: pipelineLayout,
			Vertex: wgpu.VertexState{
				Module:     vs,
				EntryPoint: vertexShader.EntryPoint(),
				Buffers:    p.VertexLayouts(),
			},
			Fragment: &wgpu.FragmentState{
				Module:     fs,
				EntryPoint: fragmentShader.EntryPoint(),
				Targets:    []wgpu.ColorTargetState{colorTarget},
			},
			Primitive: wgpu.PrimitiveState{
				Topology:  p.Topology(),
				FrontFace: p.FrontFace(),
				CullMode:  p.CullMode(),
			},
			Multisample: wgpu.MultisampleState{
				Count: samples,
				Mask:  0xFFFFFFFF,
			},
			DepthStencil: &wgpu.DepthStencilState{
				Format:            depthFormat,
				DepthWriteEnabled: p.DepthWriteEnabled(),
				DepthCompare:      depthCompare,
				StencilFront: wgpu.StencilFaceState{
					Compare: wgpu.CompareFunctionAlways,
				},
				StencilBack: wgpu.StencilFaceState{
					Compare: wgpu.CompareFunctionAlways,
				},
			},
		})
		if createErr != nil {
			return createErr
		}
		p.SetRenderPipeline(target, created)
	}

	return nil
}

func (b *wgpuRendererBackendImpl) CreateRenderTarget(label string, width, height int) (RenderTarget, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	provider := bind_group_provider.NewBindGroupProvider(label)
	target := &wgpuRenderTarget{wgpuTexture{provider: provider, width: width, height: height}}

	colorTex, colorView, err := b.createAttachment(label+" Color", width, height, 1, wallFormat,
		wgpu.TextureUsageRenderAttachment|wgpu.TextureUsageTextureBinding)
	if err != nil {
		return nil, err
	}
	provider.SetTexture(textureBinding, colorTex)
	provider.SetTextureView(textureBinding, colorView)

	depthTex, depthView, err := b.createAttachment(label+" Depth", width, height, 1, depthFormat, wgpu.TextureUsageRenderAttachment)
	if err != nil {
		provider.Release()
		return nil, err
	}
	provider.SetTexture(depthSlot, depthTex)
	provider.SetTextureView(depthSlot, depthView)

	if err := b.initTextureBindGroup(provider, common.SamplerStagingData{
		AddressModeU: wgpu.AddressModeClampToEdge,
		AddressModeV: wgpu.AddressModeClampToEdge,
		AddressModeW: wgpu.AddressModeClampToEdge,
		MipmapFilter: wgpu.MipmapFilterModeNearest,
		LodMaxClamp:  1,
	}); err != nil {
		provider.Release()
		return nil, err
	}
	return target, nil
}

func (b *wgpuRendererBackendImpl) CreateTexture(label string, data common.TextureStagingData, sampler common.SamplerStagingData) (Texture, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	provider := bind_group_provider.NewBindGroupProvider(label)

	tex, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:     label + " Texture",
		Usage:     wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
		Dimension: wgpu.TextureDimension2D,
		Size: wgpu.Extent3D{
			Width:              data.Width,
			Height:             data.Height,
			DepthOrArrayLayers: 1,
		},
		Format:        wgpu.TextureFormatRGBA8UnormSrgb,
		MipLevelCount: 1,
		SampleCount:   1,
	})
	if err != nil {
		return nil, err
	}
	provider.SetTexture(textureBinding, tex)

	b.queue.WriteTexture(
		&wgpu.ImageCopyTexture{
			Texture:  tex,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{},
			Aspect:   wgpu.TextureAspectAll,
		},
		data.Pixels,
		&wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  data.Width * 4,
			RowsPerImage: data.Height,
		},
		&wgpu.Extent3D{
			Width:              data.Width,
			Height:             data.Height,
			DepthOrArrayLayers: 1,
		},
	)

	view, err := tex.CreateView(nil)
	if err != nil {
		provider.Release()
		return nil, err
	}
	provider.SetTextureView(textureBinding, view)

	if err := b.initTextureBindGroup(provider, sampler); err != nil {
		provider.Release()
		return nil, err
	}
	return &wgpuTexture{provider: provider, width: int(data.Width), height: int(data.Height)}, nil
}

// initTextureBindGroup creates the sampler and the group 1 bind group for a provider whose texture view is set.
func (b *wgpuRendererBackendImpl) initTextureBindGroup(provider bind_group_provider.BindGroupProvider, samplerStagingData common.SamplerStagingData) error {
	samp, err := b.device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         provider.Label() + " Sampler",
		AddressModeU:  common.Coalesce(samplerStagingData.AddressModeU, wgpu.AddressModeRepeat),
		AddressModeV:  common.Coalesce(samplerStagingData.AddressModeV, wgpu.AddressModeRepeat),
		AddressModeW:  common.Coalesce(samplerStagingData.AddressModeW, wgpu.AddressModeRepeat),
		MagFilter:     common.Coalesce(samplerStagingData.MagFilter, wgpu.FilterModeLinear),
		MinFilter:     common.Coalesce(samplerStagingData.MinFilter, wgpu.FilterModeLinear),
		MipmapFilter:  common.Coalesce(samplerStagingData.MipmapFilter, wgpu.MipmapFilterModeLinear),
		LodMinClamp:   common.Coalesce(samplerStagingData.LodMinClamp, 0.0),
		LodMaxClamp:   common.Coalesce(samplerStagingData.LodMaxClamp, 32.0),
		MaxAnisotropy: common.Coalesce(samplerStagingData.MaxAnisotropy, 1),
	})
	if err != nil {
		return err
	}
	provider.SetSampler(samplerBinding, samp)

	layout, err := b.layout(textureGroupLayout)
	if err != nil {
		return err
	}
	tv := provider.TextureView(textureBinding)
	if tv == nil {
		return fmt.Errorf("texture binding %d of %q has no texture view", textureBinding, provider.Label())
	}

	bindGroup, err := b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  provider.Label() + " Bind Group",
		Layout: layout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: textureBinding, TextureView: tv},
			{Binding: samplerBinding, Sampler: samp},
		},
	})
	if err != nil {
		return err
	}
	provider.SetBindGroup(bindGroup)
	return nil
}

func (b *wgpuRendererBackendImpl) CreateMesh(label string, vertexData, indexData []byte, indexCount int) (Mesh, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	provider := bind_group_provider.NewBindGroupProvider(label)

	vbuf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label:            label + " Vertex Buffer",
		Size:             uint64(len(vertexData)),
		Usage:            wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
		MappedAtCreation: false,
	})
	if err != nil {
		return nil, err
	}
	b.queue.WriteBuffer(vbuf, 0, vertexData)
	provider.SetVertexBuffer(vbuf, len(vertexData)/int(VertexStride))

	ibuf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label:            label + " Index Buffer",
		Size:             uint64(len(indexData)),
		Usage:            wgpu.BufferUsageIndex | wgpu.BufferUsageCopyDst,
		MappedAtCreation: false,
	})
	if err != nil {
		provider.Release()
		return nil, err
	}
	b.queue.WriteBuffer(ibuf, 0, indexData)
	provider.SetIndexBuffer(ibuf, indexCount)

	return &wgpuMesh{provider: provider}, nil
}

func (b *wgpuRendererBackendImpl) BeginFrame() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	// If a previous frame's surface texture is still held, do not acquire another one.
	if b.frameSurface != nil {
		return fmt.Errorf("previous frame surface not yet presented")
	}

	surfaceTexture, err := b.surface.GetCurrentTexture()
	if err != nil {
		return err
	}

	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		surfaceTexture.Release()
		return err
	}

	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		view.Release()
		surfaceTexture.Release()
		return err
	}

	b.frameEncoder = encoder
	b.frameSurface = surfaceTexture
	b.frameView = view
	return nil
}

func (b *wgpuRendererBackendImpl) BeginTargetPass(target RenderTarget, clear Color) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.frameEncoder == nil {
		return ErrNoFrame
	}
	rt, ok := target.(*wgpuRenderTarget)
	if !ok || rt.colorView() == nil || rt.depthView() == nil {
		return fmt.Errorf("begin target pass: %w", ErrInvalidResource)
	}

	b.framePass = b.frameEncoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		Label: rt.Label() + " Pass",
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:       rt.colorView(),
				LoadOp:     wgpu.LoadOpClear,
				StoreOp:    wgpu.StoreOpStore,
				ClearValue: wgpu.Color{R: clear.R, G: clear.G, B: clear.B, A: clear.A},
			},
		},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            rt.depthView(),
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpDiscard,
			DepthClearValue: 1.0,
		},
	})
	return nil
}

func (b *wgpuRendererBackendImpl) BeginSurfacePass(viewport Viewport, clear *Color) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.frameEncoder == nil || b.frameView == nil {
		return ErrNoFrame
	}

	color := wgpu.RenderPassColorAttachment{
		View:    b.frameView,
		LoadOp:  wgpu.LoadOpLoad,
		StoreOp: wgpu.StoreOpStore,
	}
	if clear != nil {
		color.LoadOp = wgpu.LoadOpClear
		color.ClearValue = wgpu.Color{R: clear.R, G: clear.G, B: clear.B, A: clear.A}
	}
	// With MSAA the multisampled texture keeps the image across eye passes
	// and each pass resolves it into the swapchain view.
	if b.sampleCount > 1 {
		color.View = b.msaaTextureView
		color.ResolveTarget = b.frameView
	}

	b.framePass = b.frameEncoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		Label:            "Eye Pass",
		ColorAttachments: []wgpu.RenderPassColorAttachment{color},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            b.depthTextureView,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpDiscard,
			DepthClearValue: 1.0,
		},
	})

	vp := clampViewport(viewport, b.surfaceWidth, b.surfaceHeight)
	b.framePass.SetViewport(vp.X, vp.Y, vp.Width, vp.Height, 0, 1)
	return nil
}

// clampViewport keeps a viewport inside the surface, which WebGPU validation requires.
func clampViewport(v Viewport, width, height int) Viewport {
	w, h := float32(width), float32(height)
	v.X = common.Clamp(v.X, 0, w)
	v.Y = common.Clamp(v.Y, 0, h)
	v.Width = common.Clamp(v.Width, 0, w-v.X)
	v.Height = common.Clamp(v.Height, 0, h-v.Y)
	return v
}

func (b *wgpuRendererBackendImpl) DrawMesh(p pipeline.Pipeline, target pipeline.PassTarget, mesh Mesh, texture Texture, uniformOffset uint32) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.framePass == nil {
		return ErrNoPass
	}
	renderPipeline := p.RenderPipeline(target)
	if renderPipeline == nil {
		return fmt.Errorf("render pipeline %q has no variant for pass target %d", p.PipelineKey(), target)
	}
	m, ok := mesh.(*wgpuMesh)
	if !ok {
		return fmt.Errorf("draw mesh: %w", ErrInvalidResource)
	}
	texProvider, ok := textureProvider(texture)
	if !ok {
		return fmt.Errorf("draw mesh %q: %w", m.Label(), ErrInvalidResource)
	}

	b.framePass.SetPipeline(renderPipeline)
	b.framePass.SetBindGroup(0, b.uniformRing.BindGroup(), []uint32{uniformOffset})
	b.framePass.SetBindGroup(1, texProvider.BindGroup(), nil)
	b.framePass.SetVertexBuffer(0, m.provider.VertexBuffer(), 0, wgpu.WholeSize)
	b.framePass.SetIndexBuffer(m.provider.IndexBuffer(), wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
	b.framePass.DrawIndexed(uint32(m.provider.IndexCount()), 1, 0, 0, 0)
	return nil
}

func (b *wgpuRendererBackendImpl) DrawLines(p pipeline.Pipeline, target pipeline.PassTarget, uniformOffset, firstVertex, vertexCount uint32) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.framePass == nil {
		return ErrNoPass
	}
	renderPipeline := p.RenderPipeline(target)
	if renderPipeline == nil {
		return fmt.Errorf("render pipeline %q has no variant for pass target %d", p.PipelineKey(), target)
	}

	b.framePass.SetPipeline(renderPipeline)
	b.framePass.SetBindGroup(0, b.uniformRing.BindGroup(), []uint32{uniformOffset})
	b.framePass.SetVertexBuffer(0, b.lineRing.VertexBuffer(), 0, wgpu.WholeSize)
	b.framePass.Draw(vertexCount, 1, firstVertex, 0)
	return nil
}

func (b *wgpuRendererBackendImpl) EndPass() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.framePass == nil {
		return
	}
	b.framePass.End()
	b.framePass.Release()
	b.framePass = nil
}

// writeBuffers writes staged data through the queue. Writes are ordered before the next Submit.
func (b *wgpuRendererBackendImpl) writeBuffers(writes []bind_group_provider.BufferWrite) {
	for _, w := range writes {
		buf := w.Target()
		if buf == nil || w.Empty() {
			continue
		}
		b.queue.WriteBuffer(buf, w.Offset, w.Data)
	}
}

func (b *wgpuRendererBackendImpl) EndFrame(uniformData, lineData []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.frameEncoder == nil {
		return ErrNoFrame
	}

	b.writeBuffers([]bind_group_provider.BufferWrite{
		{Provider: b.uniformRing, Binding: 0, Offset: 0, Data: uniformData},
		{Provider: b.lineRing, Binding: bind_group_provider.BindingVertex, Offset: 0, Data: lineData},
	})

	commandBuffer, err := b.frameEncoder.Finish(nil)
	b.frameEncoder.Release()
	b.frameEncoder = nil
	if err != nil {
		return fmt.Errorf("failed to finish frame: %w", err)
	}

	b.queue.Submit(commandBuffer)
	commandBuffer.Release()
	return nil
}

func (b *wgpuRendererBackendImpl) Present() {
	b.mu.Lock()
	defer b.mu.Unlock()

	// If no frame surface is held, nothing to present.
	if b.frameSurface == nil {
		return
	}

	b.surface.Present()

	if b.frameView != nil {
		b.frameView.Release()
		b.frameView = nil
	}
	b.frameSurface.Release()
	b.frameSurface = nil
}

func (b *wgpuRendererBackendImpl) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.uniformRing != nil {
		b.uniformRing.Release()
		b.uniformRing = nil
	}
	if b.lineRing != nil {
		b.lineRing.Release()
		b.lineRing = nil
	}
	for label, l := range b.layouts {
		l.Release()
		delete(b.layouts, label)
	}
	b.releaseSurfaceAttachments()

	if b.surface != nil {
		b.surface.Release()
		b.surface = nil
	}
	if b.queue != nil {
		b.queue.Release()
		b.queue = nil
	}
	if b.device != nil {
		b.device.Release()
		b.device = nil
	}
	if b.adapter != nil {
		b.adapter.Release()
		b.adapter = nil
	}
	if b.instance != nil {
		b.instance.Release()
		b.instance = nil
	}
	log.Printf("[Renderer] released")
}
