package ppu

// State is a gob-encodable snapshot of the PPU's registers, internal
// scroll/address latches, rendering cursor, OAM and frame buffer. The
// nametable/palette RAM living behind memory is snapshotted separately
// through the PPU's own memory field by the caller.
type State struct {
	PPUCtrl, PPUMask, PPUStatus uint8
	OAMAddr, OAMData            uint8
	PPUScroll, PPUAddr, PPUData uint8

	V, T uint16
	X    uint8
	W    bool

	Scanline    int
	Cycle       int
	FrameCount  uint64
	OddFrame    bool
	SuppressVBL bool
	ReadBuffer  uint8

	OAM              [256]uint8
	SecondaryOAM     [32]uint8
	SpriteCount      uint8
	Sprite0Hit       bool
	SpriteOverflow   bool
	LastEvalScanline int
	SpriteIndexes    [8]uint8
	Sprite0OnScanline bool

	FrameBuffer [256 * 240]uint32

	BackgroundEnabled bool
	SpritesEnabled    bool
	RenderingEnabled  bool

	CycleCount uint64
}

// Snapshot captures everything about the PPU needed to resume
// rendering from exactly where it left off, except the nametable and
// palette RAM held by the PPU's memory, which the caller snapshots
// through Memory() separately.
func (p *PPU) Snapshot() State {
	return State{
		PPUCtrl: p.ppuCtrl, PPUMask: p.ppuMask, PPUStatus: p.ppuStatus,
		OAMAddr: p.oamAddr, OAMData: p.oamData,
		PPUScroll: p.ppuScroll, PPUAddr: p.ppuAddr, PPUData: p.ppuData,
		V: p.v, T: p.t, X: p.x, W: p.w,
		Scanline: p.scanline, Cycle: p.cycle, FrameCount: p.frameCount,
		OddFrame: p.oddFrame, SuppressVBL: p.suppressVBL, ReadBuffer: p.readBuffer,
		OAM: p.oam, SecondaryOAM: p.secondaryOAM, SpriteCount: p.spriteCount,
		Sprite0Hit: p.sprite0Hit, SpriteOverflow: p.spriteOverflow,
		LastEvalScanline: p.lastEvalScanline, SpriteIndexes: p.spriteIndexes,
		Sprite0OnScanline: p.sprite0OnScanline,
		FrameBuffer:       p.frameBuffer,
		BackgroundEnabled: p.backgroundEnabled, SpritesEnabled: p.spritesEnabled,
		RenderingEnabled: p.renderingEnabled, CycleCount: p.cycleCount,
	}
}

// Restore replaces the PPU's register and rendering-cursor state with
// a previously captured snapshot.
func (p *PPU) Restore(s State) {
	p.ppuCtrl, p.ppuMask, p.ppuStatus = s.PPUCtrl, s.PPUMask, s.PPUStatus
	p.oamAddr, p.oamData = s.OAMAddr, s.OAMData
	p.ppuScroll, p.ppuAddr, p.ppuData = s.PPUScroll, s.PPUAddr, s.PPUData
	p.v, p.t, p.x, p.w = s.V, s.T, s.X, s.W
	p.scanline, p.cycle, p.frameCount = s.Scanline, s.Cycle, s.FrameCount
	p.oddFrame, p.suppressVBL, p.readBuffer = s.OddFrame, s.SuppressVBL, s.ReadBuffer
	p.oam, p.secondaryOAM, p.spriteCount = s.OAM, s.SecondaryOAM, s.SpriteCount
	p.sprite0Hit, p.spriteOverflow = s.Sprite0Hit, s.SpriteOverflow
	p.lastEvalScanline, p.spriteIndexes = s.LastEvalScanline, s.SpriteIndexes
	p.sprite0OnScanline = s.Sprite0OnScanline
	p.frameBuffer = s.FrameBuffer
	p.backgroundEnabled, p.spritesEnabled = s.BackgroundEnabled, s.SpritesEnabled
	p.renderingEnabled, p.cycleCount = s.RenderingEnabled, s.CycleCount
}
