package sitegen_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/okian/vantage/internal/adapters/sitegen"
	"github.com/okian/vantage/internal/domain/model"
	"github.com/okian/vantage/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestTrigger(t *testing.T) {
	Convey("Given a listening sitegen service", t, func() {
		received := make(chan sitegen.Notice, 1)
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var n sitegen.Notice
			if err := json.NewDecoder(r.Body).Decode(&n); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			received <- n
			w.WriteHeader(http.StatusAccepted)
		}))
		defer srv.Close()

		trigger := sitegen.New(srv.URL, time.Second, logger.Get())

		Convey("A created institution is posted with its members", func() {
			trigger.NotifyCreated(model.Institution{
				Name:        "university.eth-zurich",
				DisplayName: "ETH Zurich",
				Country:     "CH",
				WebsiteURL:  "https://ethz.ch",
			}, []string{"ada", "grace"})

			select {
			case n := <-received:
				So(n.Name, ShouldEqual, "university.eth-zurich")
				So(n.Members, ShouldResemble, []string{"ada", "grace"})
			case <-time.After(2 * time.Second):
				t.Fatal("notice never arrived")
			}
		})
	})

	Convey("Given no configured URL", t, func() {
		trigger := sitegen.New("", time.Second, logger.Get())

		Convey("The trigger is disabled and notifying is a no-op", func() {
			So(trigger.Enabled(), ShouldBeFalse)
			trigger.NotifyCreated(model.Institution{Name: "university.mit"}, nil)
		})
	})

	Convey("Given a failing service", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		trigger := sitegen.New(srv.URL, time.Second, logger.Get())

		Convey("Notifying never blocks or panics", func() {
			trigger.NotifyCreated(model.Institution{Name: "university.mit"}, nil)
		})
	})
}
