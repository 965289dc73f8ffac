// Package gui is a raylib window that plays a strand simulation in 3D with
// its gathered boundaries drawn as wireframes.
package gui

import (
	"fmt"
	"image/color"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/hairsim/internal/boundary"
	"github.com/san-kum/hairsim/internal/sim"
	"github.com/san-kum/hairsim/internal/strands"
	"github.com/san-kum/hairsim/internal/world"
)

var (
	colBg       = rl.NewColor(10, 10, 10, 255)
	colStrand   = rl.NewColor(255, 255, 255, 255)
	colBoundary = rl.NewColor(90, 90, 90, 255)
	colSelected = rl.NewColor(120, 200, 255, 255)
	colBounds   = rl.NewColor(40, 40, 40, 255)
	colText     = rl.NewColor(140, 140, 140, 255)
	colTextDim  = rl.NewColor(60, 60, 60, 255)
	colWarn     = rl.NewColor(220, 120, 60, 255)
)

const (
	windowWidth  = 1280
	windowHeight = 720
	hitchDt      = 0.5
	telemetryLen = 200

	// nudgeSpeed is how far the selected obstacle moves per second of
	// held arrow key, in world units.
	nudgeSpeed = 0.25
)

// Source is what the window plays.
type Source interface {
	Simulator() *sim.Simulator
	Solver() *strands.Solver
	Boundaries() []boundary.Entry
	Scene() *world.Scene
}

type App struct {
	src     Source
	frameDt float64
	fixed   bool

	camera   rl.Camera3D
	yaw      float64
	pitch    float64
	distance float64

	running    bool
	hitch      bool
	showBounds bool
	last       sim.FrameStats
	boundaries []boundary.Entry
	telemetry  []float64
	selected   int
}

// NewApp opens the window. A positive frameDt plays every frame with that
// length; otherwise the measured frame time is used.
func NewApp(src Source, frameDt float64) *App {
	rl.InitWindow(windowWidth, windowHeight, "hairsim")
	rl.SetTargetFPS(60)
	rl.SetExitKey(0)

	b := src.Solver().Bounds()
	return &App{
		src:        src,
		frameDt:    frameDt,
		fixed:      frameDt > 0,
		camera:     rl.NewCamera3D(rl.NewVector3(0, 0, 1), rl.NewVector3(0, 0, 0), rl.NewVector3(0, 1, 0), 45.0, rl.CameraPerspective),
		yaw:        0.6,
		pitch:      0.3,
		distance:   math.Max(3*b.MaxExtent(), 0.5),
		running:    true,
		showBounds: true,
		telemetry:  make([]float64, 0, telemetryLen),
	}
}

// Run blocks until the window is closed.
func (a *App) Run() {
	defer rl.CloseWindow()
	for !rl.WindowShouldClose() {
		if rl.IsKeyPressed(rl.KeyQ) {
			return
		}
		a.Update()
		a.Draw()
	}
}

func (a *App) Update() {
	if rl.IsKeyPressed(rl.KeySpace) {
		a.running = !a.running
	}
	if rl.IsKeyPressed(rl.KeyH) {
		a.hitch = true
	}
	if rl.IsKeyPressed(rl.KeyB) {
		a.showBounds = !a.showBounds
	}
	if rl.IsKeyPressed(rl.KeyR) {
		a.src.Simulator().Restore(sim.Accumulator{})
	}
	a.editScene()

	if rl.IsMouseButtonDown(rl.MouseRightButton) {
		delta := rl.GetMouseDelta()
		a.yaw -= float64(delta.X) * 0.01
		a.pitch = mgl64.Clamp(a.pitch+float64(delta.Y)*0.01, -1.5, 1.5)
	}
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		a.distance = math.Max(a.distance*(1-0.1*float64(wheel)), 0.05)
	}

	b := a.src.Solver().Bounds()
	pos := orbit(b.Center, a.distance, a.yaw, a.pitch)
	a.camera.Position = vec(pos)
	a.camera.Target = vec(b.Center)

	if !a.running {
		return
	}
	dt := a.frameDt
	if !a.fixed {
		dt = float64(rl.GetFrameTime())
	}
	if a.hitch {
		dt = hitchDt
		a.hitch = false
	}
	a.last = a.src.Simulator().Frame(dt)
	a.boundaries = a.src.Boundaries()

	if len(a.telemetry) == telemetryLen {
		a.telemetry = append(a.telemetry[:0], a.telemetry[1:]...)
	}
	a.telemetry = append(a.telemetry, a.last.Smoothed)
}

// editScene lets the user pick an obstacle with Tab, push it around with the
// arrow keys (PageUp/PageDown for depth) and delete it.
func (a *App) editScene() {
	scene := a.src.Scene()
	if scene == nil {
		return
	}
	objs := scene.Space.Objects()
	if len(objs) == 0 {
		return
	}
	if rl.IsKeyPressed(rl.KeyTab) {
		a.selected = (a.selected + 1) % len(objs)
	}
	a.selected = min(a.selected, len(objs)-1)
	o := objs[a.selected]

	if rl.IsKeyPressed(rl.KeyDelete) {
		scene.Remove(o)
		return
	}

	var d mgl64.Vec3
	if rl.IsKeyDown(rl.KeyLeft) {
		d[0]--
	}
	if rl.IsKeyDown(rl.KeyRight) {
		d[0]++
	}
	if rl.IsKeyDown(rl.KeyUp) {
		d[1]++
	}
	if rl.IsKeyDown(rl.KeyDown) {
		d[1]--
	}
	if rl.IsKeyDown(rl.KeyPageUp) {
		d[2]--
	}
	if rl.IsKeyDown(rl.KeyPageDown) {
		d[2]++
	}
	if d.Len() == 0 {
		return
	}

	t := o.Transform
	t.Position = t.Position.Add(d.Mul(nudgeSpeed * float64(rl.GetFrameTime())))
	_ = scene.Move(o, t)
}

func (a *App) selectedHandle() (boundary.Handle, bool) {
	scene := a.src.Scene()
	if scene == nil {
		return 0, false
	}
	objs := scene.Space.Objects()
	if a.selected >= len(objs) {
		return 0, false
	}
	return objs[a.selected].Handle, true
}

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(colBg)

	rl.BeginMode3D(a.camera)
	if a.showBounds {
		a.drawVolume()
		sel, hasSel := a.selectedHandle()
		for _, e := range a.boundaries {
			col := colBoundary
			if hasSel && e.Handle == sel {
				col = colSelected
			}
			drawBoundary(e, col)
		}
	}
	a.drawStrands()
	rl.EndMode3D()

	a.drawHUD()
	rl.EndDrawing()
}

func (a *App) drawStrands() {
	for _, st := range a.src.Solver().Strands() {
		for j := 1; j < len(st.Position); j++ {
			rl.DrawLine3D(vec(st.Position[j-1]), vec(st.Position[j]), colStrand)
		}
	}
}

func (a *App) drawVolume() {
	b := a.src.Solver().Bounds()
	e := b.Extents.Mul(2)
	rl.DrawCubeWires(vec(b.Center), float32(e.X()), float32(e.Y()), float32(e.Z()), colBounds)
}

func drawBoundary(e boundary.Entry, col color.RGBA) {
	switch s := e.Shape.(type) {
	case boundary.Sphere:
		rl.DrawSphereWires(vec(s.Center), float32(s.Radius), 8, 12, col)
	case boundary.Capsule:
		rl.DrawCapsuleWires(vec(s.A), vec(s.B), float32(s.Radius), 12, 4, col)
	case boundary.Cube:
		c := cubeCorners(s)
		for _, edge := range cubeEdges {
			rl.DrawLine3D(vec(c[edge[0]]), vec(c[edge[1]]), col)
		}
	case boundary.Torus:
		axis, angle := ringRotation(s.Axis)
		rl.DrawCircle3D(vec(s.Center), float32(s.MajorRadius+s.MinorRadius), vec(axis), float32(angle), col)
		rl.DrawCircle3D(vec(s.Center), float32(math.Max(s.MajorRadius-s.MinorRadius, 0)), vec(axis), float32(angle), col)
	}
}

func (a *App) drawHUD() {
	rl.DrawText("hairsim", 30, 30, 24, colStrand)

	status, col := "RUNNING", colStrand
	if !a.running {
		status, col = "PAUSED", colTextDim
	}
	rl.DrawText(status, windowWidth-130, 30, 16, col)

	lines := []string{
		fmt.Sprintf("frame       %d", a.last.Frame),
		fmt.Sprintf("steps       %d", a.last.Steps),
		fmt.Sprintf("smoothed    %.2f", a.last.Smoothed),
		fmt.Sprintf("accumulated %.4fs", a.last.Accumulated),
		fmt.Sprintf("boundaries  %d", a.last.Boundaries),
		fmt.Sprintf("contacts    %d", a.src.Solver().Contacts()),
	}
	for i, l := range lines {
		rl.DrawText(l, 30, int32(70+20*i), 16, colText)
	}
	if a.last.Skipped > 0 {
		rl.DrawText(fmt.Sprintf("skipped     %d", a.last.Skipped), 30, int32(70+20*len(lines)), 16, colWarn)
	}

	a.drawTelemetry()
	rl.DrawText("[SPACE] PAUSE  [H] HITCH  [B] BOUNDS  [R] RESET  [TAB] SELECT  [ARROWS] MOVE  [DEL] REMOVE  [Q] QUIT  [RMB] ORBIT", 380, windowHeight-40, 14, colTextDim)
	rl.DrawText(fmt.Sprintf("%d FPS", int32(rl.GetFPS())), 30, windowHeight-40, 14, colTextDim)
}

func (a *App) drawTelemetry() {
	if len(a.telemetry) < 2 {
		return
	}
	x, y := float32(30), float32(windowHeight-140)
	w, h := float32(400), float32(60)

	hi := 1.0
	for _, v := range a.telemetry {
		hi = math.Max(hi, v)
	}

	points := make([]rl.Vector2, len(a.telemetry))
	for i, v := range a.telemetry {
		px := x + float32(i)/float32(telemetryLen)*w
		py := y + h - float32(v/hi)*h
		points[i] = rl.NewVector2(px, py)
	}
	rl.DrawLineStrip(points, colText)
}

func vec(v mgl64.Vec3) rl.Vector3 {
	return rl.NewVector3(float32(v.X()), float32(v.Y()), float32(v.Z()))
}
