// Package preview opens a native window and runs the page-turn engine
// interactively: the software-rendered frame is streamed to a GL texture
// each refresh and mouse input is translated into viewer pointer events.
package preview

import (
	"fmt"
	"image"
	"image/draw"
	"runtime"
	"strings"
	"time"
	"unsafe"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/wudi/flipkit/viewer"
)

// Frames queues animation callbacks and runs them once per loop
// iteration, standing in for the browser's per-refresh scheduler.
type Frames struct {
	pending []func(now time.Time)
}

func NewFrames() *Frames { return &Frames{} }

func (f *Frames) Schedule(fn func(now time.Time)) { f.pending = append(f.pending, fn) }

func (f *Frames) run(now time.Time) {
	batch := f.pending
	f.pending = nil
	for _, fn := range batch {
		fn(now)
	}
}

// Run owns the main loop until the window closes. Must be called from
// the program's main goroutine.
func Run(v *viewer.Viewer, frames *Frames, title string, width, height int) error {
	runtime.LockOSThread()

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("preview: init glfw: %w", err)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.ContextVersionMajor, 3)
	glfw.WindowHint(glfw.ContextVersionMinor, 3)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	win, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		return fmt.Errorf("preview: create window: %w", err)
	}
	win.MakeContextCurrent()
	glfw.SwapInterval(1)

	if err := gl.Init(); err != nil {
		return fmt.Errorf("preview: init gl: %w", err)
	}

	blit, err := newBlitter()
	if err != nil {
		return err
	}
	defer blit.destroy()

	resize := func() {
		w, h := win.GetSize()
		sx, _ := win.GetContentScale()
		v.Resize(float64(w), float64(h), float64(sx))
	}
	resize()

	// The page surface is centered in the window; pointer coordinates
	// are translated into surface space.
	surfaceOrigin := func() (float64, float64) {
		w, h := win.GetSize()
		g := v.Geometry()
		return (float64(w) - g.Width) / 2, (float64(h) - g.Height) / 2
	}

	win.SetFramebufferSizeCallback(func(*glfw.Window, int, int) { resize() })
	win.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		ox, oy := surfaceOrigin()
		v.PointerMove(x-ox, y-oy)
	})
	win.SetMouseButtonCallback(func(_ *glfw.Window, b glfw.MouseButton, a glfw.Action, _ glfw.ModifierKey) {
		if b != glfw.MouseButtonLeft {
			return
		}
		switch a {
		case glfw.Press:
			x, y := win.GetCursorPos()
			ox, oy := surfaceOrigin()
			v.PointerDown(x-ox, y-oy)
		case glfw.Release:
			v.PointerUp()
		}
	})
	win.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		if key == glfw.KeyEscape && action == glfw.Press {
			win.SetShouldClose(true)
		}
	})

	for !win.ShouldClose() {
		glfw.PollEvents()
		frames.run(time.Now())

		fbw, fbh := win.GetFramebufferSize()
		gl.Viewport(0, 0, int32(fbw), int32(fbh))
		gl.ClearColor(0.043, 0.043, 0.059, 1)
		gl.Clear(gl.COLOR_BUFFER_BIT)

		if frame := v.Frame(); frame != nil {
			blit.draw(frame, fbw, fbh)
		}
		win.SwapBuffers()
	}
	return nil
}

// blitter draws an image as a centered, aspect-fit textured quad.
type blitter struct {
	program uint32
	vao     uint32
	vbo     uint32
	tex     uint32
}

func newBlitter() (*blitter, error) {
	b := &blitter{}
	var err error
	b.program, err = makeProgram(vertexSource, fragmentSource)
	if err != nil {
		return nil, err
	}

	// Fullscreen quad in clip space with UVs; positions are rescaled per
	// frame via the uScale uniform to preserve the page aspect.
	verts := []float32{
		//  X,  Y,  U, V
		-1, -1, 0, 1,
		1, -1, 1, 1,
		-1, 1, 0, 0,
		1, 1, 1, 0,
	}

	gl.GenVertexArrays(1, &b.vao)
	gl.BindVertexArray(b.vao)
	gl.GenBuffers(1, &b.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, b.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(verts)*4, gl.Ptr(verts), gl.STATIC_DRAW)

	const stride = 4 * 4
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, stride, unsafe.Pointer(uintptr(0)))
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 2, gl.FLOAT, false, stride, unsafe.Pointer(uintptr(2*4)))
	gl.BindVertexArray(0)

	gl.GenTextures(1, &b.tex)
	gl.BindTexture(gl.TEXTURE_2D, b.tex)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return b, nil
}

func (b *blitter) destroy() {
	gl.DeleteTextures(1, &b.tex)
	gl.DeleteBuffers(1, &b.vbo)
	gl.DeleteVertexArrays(1, &b.vao)
	gl.DeleteProgram(b.program)
}

func (b *blitter) draw(frame image.Image, fbw, fbh int) {
	rgba, ok := frame.(*image.RGBA)
	if !ok {
		bounds := frame.Bounds()
		rgba = image.NewRGBA(bounds)
		draw.Draw(rgba, bounds, frame, bounds.Min, draw.Src)
	}
	w := rgba.Bounds().Dx()
	h := rgba.Bounds().Dy()

	gl.BindTexture(gl.TEXTURE_2D, b.tex)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(w), int32(h), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(rgba.Pix))

	// Aspect-fit scale in clip space.
	sx, sy := float32(1), float32(1)
	frameAspect := float32(w) / float32(h)
	fbAspect := float32(fbw) / float32(fbh)
	if frameAspect < fbAspect {
		sx = frameAspect / fbAspect
	} else {
		sy = fbAspect / frameAspect
	}

	gl.UseProgram(b.program)
	gl.Uniform2f(gl.GetUniformLocation(b.program, gl.Str("uScale\x00")), sx, sy)
	gl.BindVertexArray(b.vao)
	gl.DrawArrays(gl.TRIANGLE_STRIP, 0, 4)
	gl.BindVertexArray(0)
	gl.UseProgram(0)
	gl.BindTexture(gl.TEXTURE_2D, 0)
}

const vertexSource = `
#version 330 core
layout(location=0) in vec2 aPos;
layout(location=1) in vec2 aUV;
uniform vec2 uScale;
out vec2 vUV;
void main() {
    vUV = aUV;
    gl_Position = vec4(aPos * uScale, 0.0, 1.0);
}
` + "\x00"

const fragmentSource = `
#version 330 core
in vec2 vUV;
out vec4 FragColor;
uniform sampler2D uTex;
void main() {
    FragColor = texture(uTex, vUV);
}
` + "\x00"

func makeShader(src string, shaderType uint32) (uint32, error) {
	sh := gl.CreateShader(shaderType)
	csrc, free := gl.Strs(src)
	defer free()
	gl.ShaderSource(sh, 1, csrc, nil)
	gl.CompileShader(sh)

	var status int32
	gl.GetShaderiv(sh, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(sh, gl.INFO_LOG_LENGTH, &logLen)
		info := strings.Repeat("\x00", int(logLen))
		gl.GetShaderInfoLog(sh, logLen, nil, gl.Str(info))
		return 0, fmt.Errorf("preview: shader compile error: %s", info)
	}
	return sh, nil
}

func makeProgram(vsSrc, fsSrc string) (uint32, error) {
	vs, err := makeShader(vsSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, err
	}
	fs, err := makeShader(fsSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vs)
		return 0, err
	}
	prog := gl.CreateProgram()
	gl.AttachShader(prog, vs)
	gl.AttachShader(prog, fs)
	gl.LinkProgram(prog)
	gl.DeleteShader(vs)
	gl.DeleteShader(fs)

	var status int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(prog, gl.INFO_LOG_LENGTH, &logLen)
		info := strings.Repeat("\x00", int(logLen))
		gl.GetProgramInfoLog(prog, logLen, nil, gl.Str(info))
		return 0, fmt.Errorf("preview: program link error: %s", info)
	}
	return prog, nil
}
