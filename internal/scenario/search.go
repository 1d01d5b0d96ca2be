// internal/scenario/search.go
package scenario

import (
	"context"
	"fmt"

	"github.com/xkilldash9x/uitest-cli/internal/config"
	"github.com/xkilldash9x/uitest-cli/internal/driver"
	"github.com/xkilldash9x/uitest-cli/internal/locator"
	"github.com/xkilldash9x/uitest-cli/internal/page"
	"github.com/xkilldash9x/uitest-cli/internal/wait"
)

// Locators for the built-in search scenario. The target site exposes a
// conventional named search input and an ordered result list.
var (
	searchBox   = locator.Name("q")
	firstResult = locator.CSS(".search-results .result:first-child a")
	resultList  = locator.CSS(".search-results")
)

// searchPage builds the page object for the search flow.
func searchPage(sess driver.Session) (*page.Page, error) {
	return page.New(sess,
		page.F("search_box", searchBox),
		page.F("first_result", firstResult),
		page.F("result_list", resultList),
	)
}

// SearchScenario is the stock end-to-end flow: load the target page, submit
// the configured query through the search form, wait for results, and check
// the first result's text.
func SearchScenario(cfg config.ScenarioConfig) Scenario {
	return Scenario{
		Name: "search-submit",
		Run: func(ctx context.Context, ex *Execution) error {
			pg, err := searchPage(ex.Session())
			if err != nil {
				return err
			}
			if err := ex.Navigate(ctx, cfg.TargetURL); err != nil {
				return err
			}

			box, err := pg.Locator("search_box")
			if err != nil {
				return err
			}
			if err := ex.Await(ctx, wait.ElementVisible(ex.Session(), box)); err != nil {
				return fmt.Errorf("search box never became visible: %w", err)
			}
			if err := ex.SendKeys(ctx, box, cfg.Query); err != nil {
				return err
			}
			if err := ex.Submit(ctx, box); err != nil {
				return err
			}

			first, err := pg.Locator("first_result")
			if err != nil {
				return err
			}
			if err := ex.Await(ctx, wait.ElementPresent(ex.Session(), first)); err != nil {
				return fmt.Errorf("no search results appeared: %w", err)
			}
			return ex.AssertTextEquals(ctx, first, cfg.ExpectedText)
		},
	}
}

// SearchWithActionsScenario exercises the same flow through a composed input
// sequence: move the pointer to the search box, type the query, press Enter.
func SearchWithActionsScenario(cfg config.ScenarioConfig) Scenario {
	return Scenario{
		Name: "search-composed-actions",
		Run: func(ctx context.Context, ex *Execution) error {
			if err := ex.Navigate(ctx, cfg.TargetURL); err != nil {
				return err
			}
			if err := ex.Await(ctx, wait.ElementVisible(ex.Session(), searchBox)); err != nil {
				return fmt.Errorf("search box never became visible: %w", err)
			}

			seq := driver.ActionSequence{}.
				MoveTo(searchBox).
				SendKeys(searchBox, cfg.Query).
				PressKey(driver.KeyEnter)
			if err := ex.Perform(ctx, seq); err != nil {
				return err
			}

			if err := ex.Await(ctx, wait.ElementPresent(ex.Session(), firstResult)); err != nil {
				return fmt.Errorf("no search results appeared: %w", err)
			}
			return ex.AssertTextEquals(ctx, firstResult, cfg.ExpectedText)
		},
	}
}
