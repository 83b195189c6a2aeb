// ABOUTME: BDD tests for the discovery filter engine.
// ABOUTME: Covers parsing, role gating, monotonic narrowing and name folding.
package discovery_test

import (
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/harperreed/scout/internal/discovery"
	"github.com/harperreed/scout/internal/models"
)

func roster() []*models.AthleteProfile {
	return []*models.AthleteProfile{
		models.NewAthlete("Anna Raj", "Cricket", "Pune", 17),
		models.NewAthlete("Ben Okafor", "Football", "Pune", 19),
		models.NewCoach("Carla Mendes", "Pune Strikers", "Pune"),
		models.NewAthlete("Dev Patel", "Cricket", "Mumbai", 16),
		models.NewAthlete("JOANNA Lee", "Cricket", "Pune", 15),
	}
}

func names(ps []*models.AthleteProfile) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.Name
	}
	return out
}

func TestParseFilter(t *testing.T) {
	Convey("Given raw filter inputs", t, func() {
		Convey("When every field is blank", func() {
			f, err := discovery.ParseFilter(" ", "", "", "")

			Convey("Then the filter is empty", func() {
				So(err, ShouldBeNil)
				So(f.IsEmpty(), ShouldBeTrue)
				So(f.String(), ShouldEqual, "all athletes")
			})
		})

		Convey("When fields carry surrounding whitespace", func() {
			f, err := discovery.ParseFilter(" Cricket ", "Pune ", " 18 ", " ann")

			Convey("Then they are trimmed and the age parsed", func() {
				So(err, ShouldBeNil)
				So(f.Sport, ShouldEqual, "Cricket")
				So(f.District, ShouldEqual, "Pune")
				So(f.Name, ShouldEqual, "ann")
				So(*f.MaxAge, ShouldEqual, 18.0)
				So(f.String(), ShouldEqual, "sport=Cricket district=Pune age<=18 name~ann")
			})
		})

		Convey("When the age is not a usable number", func() {
			for _, bad := range []string{"abc", "-1", "NaN", "Inf", "18y"} {
				_, err := discovery.ParseFilter("", "", bad, "")
				So(errors.Is(err, discovery.ErrInvalidFilterValue), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, bad)
			}
		})
	})
}

func TestApply(t *testing.T) {
	Convey("Given a roster of athletes and a coach", t, func() {
		r := roster()

		Convey("When sport, district and age are combined", func() {
			f, err := discovery.ParseFilter("Cricket", "Pune", "18", "")
			So(err, ShouldBeNil)
			got := discovery.Apply(r, f)

			Convey("Then only matching athletes remain", func() {
				So(names(got), ShouldResemble, []string{"Anna Raj", "JOANNA Lee"})
			})
		})

		Convey("When the filter is empty", func() {
			got := discovery.Apply(r, discovery.Filter{})

			Convey("Then every athlete is returned in order and coaches are excluded", func() {
				So(names(got), ShouldResemble,
					[]string{"Anna Raj", "Ben Okafor", "Dev Patel", "JOANNA Lee"})
			})
		})

		Convey("When the name fragment differs in case", func() {
			got := discovery.Apply(r, discovery.Filter{Name: "ANN"})

			Convey("Then the match ignores case", func() {
				So(names(got), ShouldResemble, []string{"Anna Raj", "JOANNA Lee"})
			})
		})

		Convey("When the age bound equals an athlete's age", func() {
			age := 16.0
			got := discovery.Apply(r, discovery.Filter{MaxAge: &age})

			Convey("Then the bound is inclusive", func() {
				So(names(got), ShouldResemble, []string{"Dev Patel", "JOANNA Lee"})
			})
		})

		Convey("When the filter is applied", func() {
			before := names(r)
			_ = discovery.Apply(r, discovery.Filter{Sport: "Football"})

			Convey("Then the input roster is unchanged", func() {
				So(names(r), ShouldResemble, before)
			})
		})

		Convey("When fields are added one at a time", func() {
			age := 17.0
			steps := []discovery.Filter{
				{},
				{Sport: "Cricket"},
				{Sport: "Cricket", District: "Pune"},
				{Sport: "Cricket", District: "Pune", MaxAge: &age},
				{Sport: "Cricket", District: "Pune", MaxAge: &age, Name: "jo"},
			}

			Convey("Then each result is a subset of the previous one", func() {
				prev := discovery.Apply(r, steps[0])
				for _, f := range steps[1:] {
					next := discovery.Apply(r, f)
					So(len(next), ShouldBeLessThanOrEqualTo, len(prev))
					for _, p := range next {
						So(prev, ShouldContain, p)
					}
					prev = next
				}
				So(names(prev), ShouldResemble, []string{"JOANNA Lee"})
			})
		})
	})
}

func TestQueryMatches(t *testing.T) {
	Convey("Given a query", t, func() {
		q := discovery.Query{Sport: "Cricket"}

		Convey("Then coaches never match", func() {
			coach := models.NewCoach("Carla", "Cricket Club", "Pune")
			coach.Sport = "Cricket"
			So(q.Matches(coach), ShouldBeFalse)
		})

		Convey("Then an athlete without an age fails an age bound", func() {
			a := models.NewAthlete("Ravi", "Cricket", "Pune", 20)
			a.Age = nil
			age := 30.0
			So(discovery.Query{MaxAge: &age}.Matches(a), ShouldBeFalse)
			So(q.Matches(a), ShouldBeTrue)
		})

		Convey("Then sport matching is exact", func() {
			a := models.NewAthlete("Ravi", "cricket", "Pune", 20)
			So(q.Matches(a), ShouldBeFalse)
		})
	})
}

func TestApplyNameFolding(t *testing.T) {
	Convey("Given profiles with mixed-case and accented names", t, func() {
		ps := []*models.AthleteProfile{
			models.NewAthlete("Anna", "Tennis", "Goa", 20),
			models.NewAthlete("ÉLODIE Brun", "Tennis", "Goa", 22),
			models.NewAthlete("Zoe", "Tennis", "Goa", 21),
		}

		Convey("Then a lower-case fragment matches a capitalised name", func() {
			So(names(discovery.Apply(ps, discovery.Filter{Name: "ann"})), ShouldResemble, []string{"Anna"})
		})

		Convey("Then folding handles non-ASCII letters", func() {
			So(names(discovery.Apply(ps, discovery.Filter{Name: "élodie"})), ShouldResemble, []string{"ÉLODIE Brun"})
		})

		Convey("Then an empty fragment keeps everyone", func() {
			So(len(discovery.Apply(ps, discovery.Filter{Name: "  "})), ShouldEqual, 3)
		})
	})
}
