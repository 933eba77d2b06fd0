package app

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/decker502/particlestorm/pkg/components"
)

// maxPointsPerBatch 每次 DrawTriangles 最多绘制的点数
// 每个点 4 个顶点，索引为 uint16，必须保证 4*maxPointsPerBatch <= 65536
const maxPointsPerBatch = 8192

// PointRenderer 把点批量绘制为小方块
//
// 所有点共享一张白色纹理，颜色通过顶点颜色传入，
// 因此每批只需要一次 DrawTriangles 调用。
type PointRenderer struct {
	pointSize float32

	whiteImage *ebiten.Image
	vertices   []ebiten.Vertex // 复用，避免每帧分配
	indices    []uint16
}

// NewPointRenderer 创建渲染器，pointSize 为方块边长（像素）
func NewPointRenderer(pointSize float32) *PointRenderer {
	if pointSize <= 0 {
		pointSize = 1
	}
	return &PointRenderer{
		pointSize: pointSize,
		vertices:  make([]ebiten.Vertex, 0, 4*maxPointsPerBatch),
		indices:   make([]uint16, 0, 6*maxPointsPerBatch),
	}
}

// white 返回 1x1 的白色纹理（取 3x3 图片的中心，避免边缘采样）
func (r *PointRenderer) white() *ebiten.Image {
	if r.whiteImage == nil {
		img := ebiten.NewImage(3, 3)
		img.Fill(color.White)
		r.whiteImage = img.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
	}
	return r.whiteImage
}

// Draw 把 points 绘制到 screen 上
func (r *PointRenderer) Draw(screen *ebiten.Image, points []components.Point) {
	for start := 0; start < len(points); start += maxPointsPerBatch {
		end := min(start+maxPointsPerBatch, len(points))
		r.buildBatch(points[start:end])

		op := &ebiten.DrawTrianglesOptions{}
		op.ColorScaleMode = ebiten.ColorScaleModeStraightAlpha
		screen.DrawTriangles(r.vertices, r.indices, r.white(), op)
	}
}

// buildBatch 为一批点生成顶点和索引（每个点两个三角形）
func (r *PointRenderer) buildBatch(points []components.Point) {
	r.vertices = r.vertices[:0]
	r.indices = r.indices[:0]

	size := r.pointSize
	for _, p := range points {
		cr := float32(p.Color.R) / 0xff
		cg := float32(p.Color.G) / 0xff
		cb := float32(p.Color.B) / 0xff
		ca := float32(p.Color.A) / 0xff
		x, y := p.Position.X, p.Position.Y

		base := uint16(len(r.vertices))
		r.vertices = append(r.vertices,
			ebiten.Vertex{DstX: x, DstY: y, SrcX: 1, SrcY: 1, ColorR: cr, ColorG: cg, ColorB: cb, ColorA: ca},
			ebiten.Vertex{DstX: x + size, DstY: y, SrcX: 2, SrcY: 1, ColorR: cr, ColorG: cg, ColorB: cb, ColorA: ca},
			ebiten.Vertex{DstX: x, DstY: y + size, SrcX: 1, SrcY: 2, ColorR: cr, ColorG: cg, ColorB: cb, ColorA: ca},
			ebiten.Vertex{DstX: x + size, DstY: y + size, SrcX: 2, SrcY: 2, ColorR: cr, ColorG: cg, ColorB: cb, ColorA: ca},
		)
		r.indices = append(r.indices,
			base+0, base+1, base+2,
			base+1, base+3, base+2,
		)
	}
}
