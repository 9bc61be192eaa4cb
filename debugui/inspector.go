package debugui

import (
	"fmt"
	"time"

	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/plus3/blockfall/engine"
	"github.com/plus3/blockfall/loop"
)

// Inspector shows engine state, spawn statistics and scheduler timings.
type Inspector struct {
	historyFrames int
	frameHistory  []float32
	frameIndex    int
}

func NewInspector(historyFrames int) *Inspector {
	if historyFrames <= 0 {
		historyFrames = 120
	}
	return &Inspector{
		historyFrames: historyFrames,
		frameHistory:  make([]float32, historyFrames),
	}
}

// Record adds a frame time, in seconds, to the history ring.
func (in *Inspector) Record(deltaTime float32) {
	in.frameHistory[in.frameIndex] = deltaTime * 1000.0
	in.frameIndex = (in.frameIndex + 1) % in.historyFrames
}

// AverageFrameTime returns the mean of the history in milliseconds.
func (in *Inspector) AverageFrameTime() float32 {
	var total float32
	for _, ft := range in.frameHistory {
		total += ft
	}
	return total / float32(in.historyFrames)
}

// Render draws the inspector window. stats may be nil.
func (in *Inspector) Render(e *engine.Engine, stats *loop.SchedulerStats, deltaTime float32) {
	if !imgui.BeginV("Blockfall Inspector", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	in.Record(deltaTime)

	rows, cols := e.Dimensions()
	imgui.Text(fmt.Sprintf("State: %s", e.State()))
	imgui.Text(fmt.Sprintf("Board: %dx%d", rows, cols))
	imgui.Text(fmt.Sprintf("Score: %d  Level: %d  Lines: %d", e.Score(), e.Level(), e.Lines()))
	imgui.Text(fmt.Sprintf("Drop Interval: %d ms", e.DropInterval()))
	if p, ok := e.Piece(); ok {
		imgui.Text(fmt.Sprintf("Piece: %s at (%d, %d)", p.Kind, p.X, p.Y))
	}

	avg := in.AverageFrameTime()
	fps := float32(0)
	if avg > 0 {
		fps = 1000.0 / avg
	}
	imgui.Text(fmt.Sprintf("Avg Frame Time: %.2f ms (%.0f FPS)", avg, fps))

	imgui.Separator()
	imgui.Text("Frame Time Graph (ms)")
	imgui.PlotLinesFloatPtr("##frametime", &in.frameHistory[0], int32(len(in.frameHistory)))

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg

	if imgui.TreeNodeStr("Spawn Counts") {
		counts := e.SpawnCounts()
		if imgui.BeginTableV("SpawnTable", 2, tableFlags, imgui.NewVec2(0, 0), 0) {
			imgui.TableSetupColumn("Kind")
			imgui.TableSetupColumn("Spawned")
			imgui.TableHeadersRow()

			for _, kind := range engine.Kinds {
				imgui.TableNextRow()
				imgui.TableNextColumn()
				imgui.Text(kind.String())
				imgui.TableNextColumn()
				imgui.Text(fmt.Sprintf("%d", counts[kind]))
			}
			imgui.EndTable()
		}
		imgui.TreePop()
	}

	if stats != nil && imgui.TreeNodeStr("Systems") {
		if imgui.BeginTableV("SystemTable", 4, tableFlags, imgui.NewVec2(0, 0), 0) {
			imgui.TableSetupColumn("System")
			imgui.TableSetupColumn("Runs")
			imgui.TableSetupColumn("Avg")
			imgui.TableSetupColumn("Max")
			imgui.TableHeadersRow()

			for _, s := range stats.Systems {
				imgui.TableNextRow()
				imgui.TableNextColumn()
				imgui.Text(s.Name)
				imgui.TableNextColumn()
				imgui.Text(fmt.Sprintf("%d", s.ExecutionCount))
				imgui.TableNextColumn()
				imgui.Text(s.AvgDuration.String())
				imgui.TableNextColumn()
				imgui.Text(s.MaxDuration.String())
			}
			imgui.EndTable()
		}
		imgui.TreePop()
	}

	imgui.End()
}

// FrameTimer measures wall time between frames.
type FrameTimer struct {
	lastFrameTime time.Time
}

func NewFrameTimer() *FrameTimer {
	return &FrameTimer{
		lastFrameTime: time.Now(),
	}
}

// DeltaTime returns the seconds since the previous call.
func (ft *FrameTimer) DeltaTime() float32 {
	now := time.Now()
	delta := float32(now.Sub(ft.lastFrameTime).Seconds())
	ft.lastFrameTime = now
	return delta
}
