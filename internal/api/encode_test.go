// ABOUTME: Tests for the JSON response writer.
// ABOUTME: Covers encoding failures surfacing as a clean 500 body.
package api

import (
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestWriteJSON(t *testing.T) {
	Convey("Given a response recorder", t, func() {
		w := httptest.NewRecorder()

		Convey("When the value encodes", func() {
			writeJSON(w, http.StatusCreated, map[string]float64{"average": 12.27})

			Convey("Then the status and body are written", func() {
				So(w.Code, ShouldEqual, http.StatusCreated)
				So(w.Header().Get("Content-Type"), ShouldStartWith, "application/json")
				So(w.Body.String(), ShouldEqual, "{\"average\":12.27}\n")
			})
		})

		Convey("When the value holds a non-finite number", func() {
			writeJSON(w, http.StatusOK, map[string]float64{"average": math.NaN()})

			Convey("Then a 500 with an internal_error body replaces it", func() {
				So(w.Code, ShouldEqual, http.StatusInternalServerError)

				var body errorResponse
				So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
				So(body.Code, ShouldEqual, "internal_error")
				So(body.Message, ShouldNotBeEmpty)
			})
		})

		Convey("When the value cannot be marshalled at all", func() {
			writeJSON(w, http.StatusOK, map[string]any{"ch": make(chan int)})

			Convey("Then the response is still valid JSON", func() {
				So(w.Code, ShouldEqual, http.StatusInternalServerError)
				So(json.Valid(w.Body.Bytes()), ShouldBeTrue)
			})
		})
	})
}
