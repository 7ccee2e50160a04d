// Copyright 2022 Stock Parfait

// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at

//     http://www.apache.org/licenses/LICENSE-2.0

// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package plot collects (x, y) plots into a Canvas which is exported as JSON
// for rendering by a separate front end.
package plot

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/stockparfait/errors"
	"gonum.org/v1/gonum/floats"
)

// ChartType is an enum of different ways to plot data: as a connected solid or
// dashed line, as individual dots for scatter plots, or as bars.
type ChartType int

// Values of ChartType.
const (
	ChartLine    ChartType = iota
	ChartDashed            // dashed connected line
	ChartScatter           // individual dots
	ChartBars              // histogram bars for each X
	ChartFilled            // line with the area below it filled
	chartLast
)

var chartTypeNames = [...]string{"line", "dashed", "scatter", "bars", "filled"}

func (c ChartType) String() string {
	if c < 0 || c >= chartLast {
		return fmt.Sprintf("<Undefined ChartType: %d>", int(c))
	}
	return chartTypeNames[c]
}

// MarshalText implements encoding.TextMarshaler, and makes ChartType a JSON
// string.
func (c ChartType) MarshalText() ([]byte, error) {
	if c < 0 || c >= chartLast {
		return nil, errors.Reason("invalid chart type: %s", c)
	}
	return []byte(c.String()), nil
}

// Plot is a single (x, y) data line in a Graph.
type Plot struct {
	X         []float64
	Y         []float64
	YLabel    string // value label on the Y axis
	Legend    string // name in the legend
	ChartType ChartType
}

// NewXYPlot creates a line plot. Panics if the slices x and y don't have the
// same length.
func NewXYPlot(x, y []float64) *Plot {
	if len(x) != len(y) {
		panic(errors.Reason("len(x)=%d != len(y)=%d", len(x), len(y)))
	}
	return &Plot{
		X:      x,
		Y:      y,
		YLabel: "values",
		Legend: "Unnamed",
	}
}

// Size is the number of points in the plot.
func (p *Plot) Size() int { return len(p.Y) }

func (p *Plot) SetYLabel(label string) *Plot {
	p.YLabel = label
	return p
}

func (p *Plot) SetLegend(legend string) *Plot {
	p.Legend = legend
	return p
}

func (p *Plot) SetChartType(t ChartType) *Plot {
	p.ChartType = t
	return p
}

// Graph is a single (x, y) chart displaying its plots against the left or the
// right Y axis.
type Graph struct {
	ID         string `json:"-"` // unique within Canvas
	Title      string
	XLabel     string
	YLogScale  bool
	PlotsRight []*Plot
	PlotsLeft  []*Plot
	MinX       *float64 `json:",omitempty"` // X range of all the plots
	MaxX       *float64 `json:",omitempty"`
	GroupID    string   `json:"-"`
	fixedX     bool
}

func NewGraph(id string) *Graph {
	return &Graph{
		ID:     id,
		Title:  id,
		XLabel: "Value",
	}
}

func (g *Graph) SetTitle(t string) *Graph {
	g.Title = t
	return g
}

func (g *Graph) SetXLabel(l string) *Graph {
	g.XLabel = l
	return g
}

func (g *Graph) SetYLogScale(b bool) *Graph {
	g.YLogScale = b
	return g
}

// SetXRange fixes the displayed X range, which otherwise spans all the plots.
func (g *Graph) SetXRange(min, max float64) *Graph {
	g.MinX = &min
	g.MaxX = &max
	g.fixedX = true
	return g
}

// extend the [min, max] range pointed to by the arguments with [lo, hi].
func extend(min, max **float64, lo, hi float64) {
	if *min == nil || lo < **min {
		*min = &lo
	}
	if *max == nil || hi > **max {
		*max = &hi
	}
}

func (g *Graph) updateBounds(p *Plot) {
	if g.fixedX || p.Size() == 0 {
		return
	}
	// X might not be sorted, e.g. in a scatter plot.
	extend(&g.MinX, &g.MaxX, floats.Min(p.X), floats.Max(p.X))
}

// AddPlotRight adds a plot displayed against the right Y axis.
func (g *Graph) AddPlotRight(p *Plot) {
	g.updateBounds(p)
	g.PlotsRight = append(g.PlotsRight, p)
}

// AddPlotLeft adds a plot displayed against the left Y axis.
func (g *Graph) AddPlotLeft(p *Plot) {
	g.updateBounds(p)
	g.PlotsLeft = append(g.PlotsLeft, p)
}

// Group of Graphs sharing the same X axis. Visually, all graphs should be
// displayed one after another in the given order, having the same width and
// aligned vertically, to match their X axis positions.
type Group struct {
	ID       string `json:"-"` // unique within Canvas
	Title    string
	Graphs   []*Graph
	MinX     *float64 `json:",omitempty"`
	MaxX     *float64 `json:",omitempty"`
	graphMap map[string]*Graph
}

func NewGroup(id string) *Group {
	return &Group{
		ID:       id,
		Title:    id,
		graphMap: make(map[string]*Graph),
	}
}

func (g *Group) SetTitle(t string) *Group {
	g.Title = t
	return g
}

func (g *Group) updateBounds(graph *Graph) {
	if graph.MinX != nil && graph.MaxX != nil {
		extend(&g.MinX, &g.MaxX, *graph.MinX, *graph.MaxX)
	}
}

// AddGraph to the Group. Graph IDs must be unique in the group.
func (g *Group) AddGraph(graph *Graph) error {
	if _, ok := g.graphMap[graph.ID]; ok {
		return errors.Reason("graph %s already exists in group %s",
			graph.ID, g.ID)
	}
	g.Graphs = append(g.Graphs, graph)
	g.graphMap[graph.ID] = graph
	graph.GroupID = g.ID
	g.updateBounds(graph)
	return nil
}

// Canvas is the master collection of all the plot groups.
type Canvas struct {
	Groups   []*Group
	groupMap map[string]*Group
	graphMap map[string]*Graph // all the graphs in all the groups
}

func NewCanvas() *Canvas {
	return &Canvas{
		groupMap: make(map[string]*Group),
		graphMap: make(map[string]*Graph),
	}
}

// AddGroup with all its graphs. Canvas is not modified in case of an error.
func (c *Canvas) AddGroup(group *Group) error {
	if _, ok := c.groupMap[group.ID]; ok {
		return errors.Reason("group %s already exists in Canvas", group.ID)
	}
	for id := range group.graphMap {
		if _, ok := c.graphMap[id]; ok {
			return errors.Reason("graph %s in group %s already exists in Canvas",
				id, group.ID)
		}
	}
	c.Groups = append(c.Groups, group)
	c.groupMap[group.ID] = group
	for id, graph := range group.graphMap {
		c.graphMap[id] = graph
	}
	return nil
}

// GetGroup by ID, or nil.
func (c *Canvas) GetGroup(id string) *Group { return c.groupMap[id] }

// GetGraph by ID, or nil.
func (c *Canvas) GetGraph(id string) *Graph { return c.graphMap[id] }

// AddGraph to the group by ID, creating the group if necessary.
func (c *Canvas) AddGraph(graph *Graph, groupID string) error {
	if _, ok := c.graphMap[graph.ID]; ok {
		return errors.Reason("graph %s already exists in Canvas", graph.ID)
	}
	group, ok := c.groupMap[groupID]
	if !ok {
		group = NewGroup(groupID)
		c.Groups = append(c.Groups, group)
		c.groupMap[groupID] = group
	}
	if err := group.AddGraph(graph); err != nil {
		return errors.Annotate(err, "failed to add graph %s to group %s",
			graph.ID, groupID)
	}
	c.graphMap[graph.ID] = graph
	return nil
}

// EnsureGraph returns the existing graph, or creates the graph and its group
// as necessary. It's an error if the graph exists in a different group.
func (c *Canvas) EnsureGraph(graphID, groupID string) (*Graph, error) {
	if graph, ok := c.graphMap[graphID]; ok {
		if graph.GroupID != groupID {
			return nil, errors.Reason(
				"cannot ensure graph %s in group %s: it already exists in group %s",
				graphID, groupID, graph.GroupID)
		}
		return graph, nil
	}
	graph := NewGraph(graphID)
	if err := c.AddGraph(graph, groupID); err != nil {
		return nil, errors.Annotate(err, "cannot ensure graph %s in group %s",
			graphID, groupID)
	}
	return graph, nil
}

func (c *Canvas) addPlot(p *Plot, graphID string, right bool) error {
	graph, ok := c.graphMap[graphID]
	if !ok {
		return errors.Reason("no such graph in Canvas: %s", graphID)
	}
	if right {
		graph.AddPlotRight(p)
	} else {
		graph.AddPlotLeft(p)
	}
	group, ok := c.groupMap[graph.GroupID]
	if !ok {
		return errors.Reason("graph %s belongs to group %s which is not in Canvas",
			graph.ID, graph.GroupID)
	}
	group.updateBounds(graph)
	return nil
}

// AddPlotRight to the graph by ID, against the right Y axis.
func (c *Canvas) AddPlotRight(p *Plot, graphID string) error {
	return c.addPlot(p, graphID, true)
}

// AddPlotLeft to the graph by ID, against the left Y axis.
func (c *Canvas) AddPlotLeft(p *Plot, graphID string) error {
	return c.addPlot(p, graphID, false)
}

func (c *Canvas) WriteJSON(w io.Writer) error {
	if err := json.NewEncoder(w).Encode(c); err != nil {
		return errors.Annotate(err, "failed to encode JSON")
	}
	return nil
}

// WriteJS writes "var DATA = <JSON>;" to w, suitable for importing as a
// javascript module.
func (c *Canvas) WriteJS(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "var DATA = "); err != nil {
		return errors.Annotate(err, "failed to write JS prefix")
	}
	if err := c.WriteJSON(w); err != nil {
		return errors.Annotate(err, "failed to write JSON part of JS")
	}
	if _, err := fmt.Fprintf(w, ";"); err != nil {
		return errors.Annotate(err, "failed to write JS suffix")
	}
	return nil
}

type contextKey int

const (
	canvasContextKey contextKey = iota
)

// Use injects the Canvas into the context.
func Use(ctx context.Context, c *Canvas) context.Context {
	return context.WithValue(ctx, canvasContextKey, c)
}

// Get the Canvas from the context, or nil if not present.
func Get(ctx context.Context) *Canvas {
	c, ok := ctx.Value(canvasContextKey).(*Canvas)
	if !ok {
		return nil
	}
	return c
}

func canvas(ctx context.Context) (*Canvas, error) {
	c := Get(ctx)
	if c == nil {
		return nil, errors.Reason("no Canvas in context")
	}
	return c, nil
}

// AddGroup to the Canvas in context.
func AddGroup(ctx context.Context, group *Group) error {
	c, err := canvas(ctx)
	if err != nil {
		return err
	}
	return c.AddGroup(group)
}

// EnsureGraph in the Canvas in context.
func EnsureGraph(ctx context.Context, graphID, groupID string) (*Graph, error) {
	c, err := canvas(ctx)
	if err != nil {
		return nil, err
	}
	return c.EnsureGraph(graphID, groupID)
}

// AddRight adds a plot to the graph by ID for the right Y axis in the Canvas
// in context.
func AddRight(ctx context.Context, p *Plot, graphID string) error {
	c, err := canvas(ctx)
	if err != nil {
		return err
	}
	return c.AddPlotRight(p, graphID)
}

// AddLeft adds a plot to the graph by ID for the left Y axis in the Canvas in
// context.
func AddLeft(ctx context.Context, p *Plot, graphID string) error {
	c, err := canvas(ctx)
	if err != nil {
		return err
	}
	return c.AddPlotLeft(p, graphID)
}

func WriteJSON(ctx context.Context, w io.Writer) error {
	c, err := canvas(ctx)
	if err != nil {
		return err
	}
	return c.WriteJSON(w)
}

func WriteJS(ctx context.Context, w io.Writer) error {
	c, err := canvas(ctx)
	if err != nil {
		return err
	}
	return c.WriteJS(w)
}
