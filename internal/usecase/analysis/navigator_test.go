package analysis

import (
	"sync"
	"testing"

	"chess_analyse/internal/domain/analysis"
)

func TestNavigator_NextWalksMainline(t *testing.T) {
	nav := NewNavigator(ruyLopezTree(t), nil)
	if nav.Token() != "0" || nav.Current() != nil {
		t.Fatalf("new navigator at %s, want root", nav.Token())
	}

	for _, want := range []string{"1", "2", "3", "4", "5"} {
		if !nav.Next() {
			t.Fatalf("Next() did not move towards %s", want)
		}
		if nav.Token() != want {
			t.Fatalf("cursor = %s, want %s", nav.Token(), want)
		}
	}
	if nav.Current().SAN != "Bb5" {
		t.Errorf("current = %s, want Bb5", nav.Current().SAN)
	}

	if nav.Next() {
		t.Error("Next() moved past the end of the mainline")
	}
	if nav.Token() != "5" {
		t.Errorf("cursor = %s after Next at the end, want 5", nav.Token())
	}
}

func TestNavigator_NextStaysOnBranch(t *testing.T) {
	nav := NewNavigator(ruyLopezTree(t), nil)
	if !nav.JumpToken("3:1,3") {
		t.Fatal("jump to 3:1,3 failed")
	}
	if !nav.Next() || nav.Token() != "3:1,4" {
		t.Fatalf("cursor = %s, want 3:1,4", nav.Token())
	}
	if nav.Next() {
		t.Errorf("Next() left the variation, cursor %s", nav.Token())
	}
}

func TestNavigator_Prev(t *testing.T) {
	tests := []struct {
		from string
		want string
	}{
		{"1", "0"},
		{"4", "3"},
		{"2:1,3", "2:1,2"},
		// first move of a variation: back to the position it branches from
		{"2:1,2", "1"},
		{"3:1,3", "2"},
		{"2:1,4:1,4", "2:1,3"},
		{"2:1,4:1,5", "2:1,4:1,4"},
	}
	for _, tt := range tests {
		nav := NewNavigator(ruyLopezTree(t), nil)
		if !nav.JumpToken(tt.from) {
			t.Fatalf("jump to %s failed", tt.from)
		}
		nav.Prev()
		if nav.Token() != tt.want {
			t.Errorf("Prev() from %s = %s, want %s", tt.from, nav.Token(), tt.want)
		}
	}
}

func TestNavigator_PrevAtRoot(t *testing.T) {
	nav := NewNavigator(ruyLopezTree(t), nil)
	if nav.Prev() {
		t.Error("Prev() at root reported a move")
	}
	if nav.Token() != "0" {
		t.Errorf("cursor = %s, want 0", nav.Token())
	}
}

func TestNavigator_FirstAndLast(t *testing.T) {
	tree := ruyLopezTree(t)
	for _, from := range []string{"0", "1", "5", "2:1,4:1,5", "3:1,4"} {
		nav := NewNavigator(tree, nil)
		nav.JumpToken(from)

		nav.Last()
		if nav.Token() != "5" || !nav.IsLate() {
			t.Errorf("Last() from %s = %s (late %v), want 5", from, nav.Token(), nav.IsLate())
		}

		nav.JumpToken(from)
		nav.First()
		if nav.Token() != "0" {
			t.Errorf("First() from %s = %s, want 0", from, nav.Token())
		}
		nav.Last()
		if nav.Token() != tree.LastMainlinePath().Encode() {
			t.Errorf("First then Last from %s = %s", from, nav.Token())
		}
	}
}

func TestNavigator_JumpInvalid(t *testing.T) {
	nav := NewNavigator(ruyLopezTree(t), nil)
	nav.JumpToken("2:1,3")

	for _, token := range []string{"", "garbage", "9", "2:3,2", "2:1", "1:1,1", "2:1,9"} {
		if nav.JumpToken(token) {
			t.Errorf("JumpToken(%q) reported a move", token)
		}
		if nav.Token() != "2:1,3" {
			t.Fatalf("JumpToken(%q) moved the cursor to %s", token, nav.Token())
		}
	}

	bad := analysis.RootPath().WithPly(7)
	if nav.Jump(bad) || nav.Token() != "2:1,3" {
		t.Errorf("Jump(%s) moved the cursor to %s", bad, nav.Token())
	}
}

func TestNavigator_JumpRoot(t *testing.T) {
	nav := NewNavigator(ruyLopezTree(t), nil)
	nav.JumpToken("4")
	if !nav.JumpToken("0") || nav.Token() != "0" {
		t.Errorf("jump to root left the cursor at %s", nav.Token())
	}
}

func TestNavigator_Wheel(t *testing.T) {
	nav := NewNavigator(ruyLopezTree(t), nil)
	nav.Wheel(120)
	nav.Wheel(3.5)
	if nav.Token() != "2" {
		t.Fatalf("after two wheel-downs cursor = %s, want 2", nav.Token())
	}
	nav.Wheel(-1)
	if nav.Token() != "1" {
		t.Errorf("after wheel-up cursor = %s, want 1", nav.Token())
	}
	if nav.Wheel(0) {
		t.Error("zero delta moved the cursor")
	}
}

func TestNavigator_Controls(t *testing.T) {
	nav := NewNavigator(ruyLopezTree(t), nil)

	controls := nav.Controls()
	if len(controls) != 4 {
		t.Fatalf("got %d controls, want 4", len(controls))
	}
	icons := ""
	for _, c := range controls {
		icons += c.Icon
		if c.Disabled {
			t.Errorf("%s disabled on a non-empty tree", c.Name)
		}
	}
	if icons != "WYXV" {
		t.Errorf("icons = %q, want WYXV", icons)
	}
	if !controls[3].Glowing {
		t.Error("last does not glow away from the end")
	}

	nav.Last()
	if nav.Controls()[3].Glowing {
		t.Error("last glows at the end of the mainline")
	}

	nav.JumpToken("3:1,4")
	if nav.IsLate() || !nav.Controls()[3].Glowing {
		t.Error("cursor in a variation counts as late")
	}
}

func TestNavigator_EmptyTree(t *testing.T) {
	tree, err := analysis.NewTree(analysis.TreeData{})
	if err != nil {
		t.Fatalf("NewTree failed: %v", err)
	}
	nav := NewNavigator(tree, nil)

	if nav.Next() || nav.Prev() || nav.Last() || nav.First() {
		t.Error("navigation moved on an empty tree")
	}
	if !nav.IsLate() {
		t.Error("root of an empty tree is not late")
	}
	for _, c := range nav.Controls() {
		if !c.Disabled || c.Glowing {
			t.Errorf("control %+v on an empty tree", c)
		}
	}
}

func TestNavigator_ConcurrentSteps(t *testing.T) {
	nav := NewNavigator(ruyLopezTree(t), nil)
	tree := nav.Tree()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				switch (i + j) % 4 {
				case 0:
					nav.Next()
				case 1:
					nav.Prev()
				case 2:
					nav.JumpToken("2:1,4:1,5")
				case 3:
					nav.Last()
				}
			}
		}(i)
	}
	wg.Wait()

	if !tree.Contains(nav.Path()) {
		t.Errorf("cursor %s is not in the tree", nav.Token())
	}
}

func TestNavigator_Apply(t *testing.T) {
	nav := NewNavigator(ruyLopezTree(t), nil)

	tests := []struct {
		cmd   Command
		want  string
		moved bool
	}{
		{Command{Action: ActionNext}, "1", true},
		{Command{Action: ActionJump, Path: "2:1,4:1,5"}, "2:1,4:1,5", true},
		{Command{Action: ActionJump, Path: "2:1,9"}, "2:1,4:1,5", false},
		{Command{Action: ActionWheel, DeltaY: -3}, "2:1,4:1,4", true},
		{Command{Action: "spin"}, "2:1,4:1,4", false},
		{Command{Action: ActionLast}, "5", true},
		{Command{Action: ActionPrev}, "4", true},
		{Command{Action: ActionFirst}, "0", true},
	}
	for _, tt := range tests {
		snap, moved := nav.Apply(tt.cmd)
		if snap.Token() != tt.want || moved != tt.moved {
			t.Fatalf("Apply(%+v) = %s moved %v, want %s moved %v", tt.cmd, snap.Token(), moved, tt.want, tt.moved)
		}
		late := tt.want == "5"
		if snap.Late != late || snap.Controls[3].Glowing == late {
			t.Errorf("Apply(%+v): late %v, last glowing %v", tt.cmd, snap.Late, snap.Controls[3].Glowing)
		}
	}
}

func TestNavigator_SnapshotIsACopy(t *testing.T) {
	nav := NewNavigator(ruyLopezTree(t), nil)
	nav.JumpToken("3:1,4")

	snap := nav.Snapshot()
	snap.Path[0].Ply = 1
	if nav.Token() != "3:1,4" {
		t.Errorf("changing a snapshot moved the cursor to %s", nav.Token())
	}
}
