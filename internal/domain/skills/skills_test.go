package skills

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestSet(t *testing.T) {
	Convey("Given a set built with duplicates", t, func() {
		s := NewSet([]string{"go", "sql", "go"})

		So(s.Len(), ShouldEqual, 2)
		So(s.Has("go"), ShouldBeTrue)
		So(s.Has("Go"), ShouldBeFalse)
		So(NewSet(nil).Len(), ShouldEqual, 0)
	})
}

func TestUnique(t *testing.T) {
	Convey("Unique keeps first occurrences in order", t, func() {
		So(Unique([]string{"b", "a", "b", "c", "a"}), ShouldResemble, []string{"b", "a", "c"})
		So(Unique(nil), ShouldBeEmpty)
	})
}

func TestIntersect(t *testing.T) {
	Convey("Given an ordered list and a set", t, func() {
		user := NewSet([]string{"react", "python", "ml"})

		Convey("The result follows the ordered list", func() {
			got := Intersect([]string{"ml", "go", "react"}, user)
			So(got, ShouldResemble, []string{"ml", "react"})
		})

		Convey("Repeated tags appear once", func() {
			got := Intersect([]string{"react", "react", "ml"}, user)
			So(got, ShouldResemble, []string{"react", "ml"})
		})

		Convey("No overlap gives an empty, non-nil slice", func() {
			got := Intersect([]string{"rust"}, user)
			So(got, ShouldNotBeNil)
			So(got, ShouldBeEmpty)
		})

		Convey("Unknown tags are ignored without error", func() {
			got := Intersect([]string{"quantum-basket-weaving"}, user)
			So(got, ShouldBeEmpty)
		})
	})
}

func TestPercentage(t *testing.T) {
	Convey("Percentage rounds half up", t, func() {
		So(Percentage(1, 3), ShouldEqual, 33)
		So(Percentage(2, 3), ShouldEqual, 67)
		So(Percentage(1, 2), ShouldEqual, 50)
		So(Percentage(1, 8), ShouldEqual, 13) // 12.5
		So(Percentage(3, 8), ShouldEqual, 38) // 37.5
		So(Percentage(2, 2), ShouldEqual, 100)
	})

	Convey("Percentage guards degenerate input", t, func() {
		So(Percentage(0, 5), ShouldEqual, 0)
		So(Percentage(3, 0), ShouldEqual, 0)
		So(Percentage(-1, 4), ShouldEqual, 0)
		So(Percentage(9, 4), ShouldEqual, 100)
	})
}
