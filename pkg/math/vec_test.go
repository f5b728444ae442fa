package math

import (
	"testing"
)

func TestVec2Add(t *testing.T) {
	a := Vec2{1, 2}
	b := Vec2{3, 4}
	got := a.Add(b)
	want := Vec2{4, 6}
	if got != want {
		t.Errorf("Vec2.Add() = %v, want %v", got, want)
	}
}

func TestVec2Scale(t *testing.T) {
	if got := (Vec2{1, -2}).Scale(16); got != (Vec2{16, -32}) {
		t.Errorf("Vec2.Scale() = %v, want {16 -32}", got)
	}
}

func TestPointVec2(t *testing.T) {
	if got := (Point{3, -1}).Vec2(); got != (Vec2{3, -1}) {
		t.Errorf("Point.Vec2() = %v, want {3 -1}", got)
	}
}

func TestVec2Floor(t *testing.T) {
	tests := []struct {
		in   Vec2
		want Point
	}{
		{Vec2{1.9, 2.1}, Point{1, 2}},
		{Vec2{-0.5, 3}, Point{-1, 3}},
		{Vec2{16, 32}, Point{16, 32}},
	}
	for _, tt := range tests {
		if got := tt.in.Floor(); got != tt.want {
			t.Errorf("%v.Floor() = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestPointCells(t *testing.T) {
	tests := []struct {
		world Point
		size  int
		want  Point
	}{
		{Point{0, 0}, 16, Point{0, 0}},
		{Point{31, 16}, 16, Point{1, 1}},
		{Point{-1, -16}, 16, Point{-1, -1}},
		{Point{-17, 5}, 16, Point{-2, 0}},
		{Point{7, 7}, 0, Point{7, 7}},
	}
	for _, tt := range tests {
		if got := tt.world.ToCell(tt.size); got != tt.want {
			t.Errorf("%v.ToCell(%d) = %v, want %v", tt.world, tt.size, got, tt.want)
		}
	}

	if got := (Point{2, 3}).ToWorld(16); got != (Point{32, 48}) {
		t.Errorf("ToWorld = %v, want {32 48}", got)
	}
}

func TestPointManhattan(t *testing.T) {
	if got := (Point{1, 1}).Manhattan(Point{4, -3}); got != 7 {
		t.Errorf("Manhattan = %d, want 7", got)
	}
}
