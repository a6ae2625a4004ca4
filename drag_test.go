package drape

import "testing"

func dragSetup(t *testing.T) (*Cloth, *Dragger) {
	t.Helper()
	c := mustBuild(t, 3, 200, 0.001)
	return c, NewDragger(NewCamera(c, 800, 600), 60)
}

func TestDraggerGrabPinsAndReleaseRestores(t *testing.T) {
	c, d := dragSetup(t)
	sx, sy, _, _ := d.Camera.Project(c.Vertices[1].Position)

	if !d.Grab(c, sx, sy) {
		t.Fatal("Grab missed vertex 1")
	}
	if !d.Active() || d.Index() != 1 {
		t.Fatalf("Active = %v, Index = %d", d.Active(), d.Index())
	}
	if !c.Vertices[1].Pinned() {
		t.Error("held vertex not pinned")
	}

	if err := d.Release(c); err != nil {
		t.Fatal(err)
	}
	if d.Active() {
		t.Error("still active after Release")
	}
	if c.Vertices[1].Pinned() {
		t.Error("vertex 1 should return to unpinned")
	}
	if c.Vertices[1].PriorDisplacement() != (Vec3{}) {
		t.Error("release left a velocity")
	}
}

func TestDraggerKeepsAnchorPinned(t *testing.T) {
	c, d := dragSetup(t)
	sx, sy, _, _ := d.Camera.Project(c.Vertices[0].Position)
	if !d.Grab(c, sx, sy) || d.Index() != 0 {
		t.Fatalf("Grab = %d", d.Index())
	}
	_ = d.Release(c)
	if !c.Vertices[0].Pinned() {
		t.Error("corner anchor lost its pin")
	}
}

func TestDraggerMiss(t *testing.T) {
	c, d := dragSetup(t)
	if d.Grab(c, -1000, -1000) {
		t.Error("Grab far off screen succeeded")
	}
	if d.Active() || d.Index() != -1 {
		t.Error("dragger active after a miss")
	}
	if err := d.Drive(c, 0, 0.2); err != nil {
		t.Fatal(err)
	}
	if err := d.Release(c); err != nil {
		t.Fatal(err)
	}
}

func TestDraggerFollowsPointer(t *testing.T) {
	c, d := dragSetup(t)
	sx, sy, depth, _ := d.Camera.Project(c.Vertices[1].Position)
	d.Grab(c, sx, sy)

	d.MoveTo(sx+40, sy-30)
	target := d.Camera.Unproject(sx+40, sy-30, depth)

	start := c.Vertices[1].Position
	if err := d.Drive(c, 0, 0.2); err != nil {
		t.Fatal(err)
	}
	first := c.Vertices[1].Position
	if first == start {
		t.Fatal("vertex did not move toward the pointer")
	}
	if first.Dist(target) >= start.Dist(target) {
		t.Error("first step moved away from the target")
	}

	for i := 0; i < 300; i++ {
		_ = d.Drive(c, 0, 0.2)
	}
	if got := c.Vertices[1].Position; !vecApprox(got, target, 1e-3) {
		t.Errorf("settled at %+v, want %+v", got, target)
	}
}
