package krepsinis

import (
	"bytes"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/schedule-odds/internal/domain/schedule"
)

const (
	DefaultOrigin = "https://www.krepsinis.net"

	selectorContainer = "#timetablesDesktop"
	classDate         = "tmtb-date"
	classRow          = "tmtb-row"
	selectorTime      = ".tmtb-time"
	selectorHomeName  = ".tmtb-team-home .tmtb-team-h-name"
	selectorAwayName  = ".tmtb-team-away .tmtb-team-a-name"
	selectorLeague    = ".tmtb-league"
	selectorHomeLogo  = ".tmtb-team-home img"
	selectorAwayLogo  = ".tmtb-team-away img"
	selectorPager     = ".league-pager .Upager"
	selectorPagerLink = `a[href*="page="]`
)

var pageParamRegex = regexp.MustCompile(`page=(\d+)`)

// Parser reads the schedule table markup of the source site.
type Parser struct {
	origin string
}

func NewParser(origin string) *Parser {
	origin = strings.TrimRight(strings.TrimSpace(origin), "/")
	if origin == "" {
		origin = DefaultOrigin
	}
	return &Parser{origin: origin}
}

// Parse returns the games on the page in document order and the total page count.
func (p *Parser) Parse(body []byte) ([]schedule.Game, int, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, 0, crerr.Wrap(err, "parse schedule markup")
	}
	return p.games(doc), totalPages(doc), nil
}

func (p *Parser) games(doc *goquery.Document) []schedule.Game {
	games := make([]schedule.Game, 0)

	container := doc.Find(selectorContainer).First()
	if container.Length() == 0 {
		return games
	}

	currentDate := ""
	container.Children().Each(func(_ int, el *goquery.Selection) {
		if el.HasClass(classDate) {
			currentDate = strings.TrimSpace(el.Text())
		}
		if !el.HasClass(classRow) {
			return
		}

		timeEl := el.Find(selectorTime).First()
		homeEl := el.Find(selectorHomeName).First()
		awayEl := el.Find(selectorAwayName).First()
		leagueEl := el.Find(selectorLeague).First()
		if timeEl.Length() == 0 || homeEl.Length() == 0 || awayEl.Length() == 0 || leagueEl.Length() == 0 {
			return
		}

		games = append(games, schedule.Game{
			Date:     currentDate,
			Time:     strings.TrimSpace(timeEl.Text()),
			HomeTeam: strings.TrimSpace(homeEl.Text()),
			AwayTeam: strings.TrimSpace(awayEl.Text()),
			League:   strings.TrimSpace(leagueEl.Text()),
			HomeLogo: p.logoURL(el.Find(selectorHomeLogo).First()),
			AwayLogo: p.logoURL(el.Find(selectorAwayLogo).First()),
		})
	})

	return games
}

func (p *Parser) logoURL(img *goquery.Selection) string {
	if img.Length() == 0 {
		return ""
	}
	src, ok := img.Attr("src")
	if !ok || src == "" {
		return ""
	}
	if strings.HasPrefix(src, "http") {
		return src
	}
	return p.origin + src
}

func totalPages(doc *goquery.Document) int {
	pager := doc.Find(selectorPager).First()
	if pager.Length() == 0 {
		return 1
	}

	maxPage := 1
	pager.Find(selectorPagerLink).Each(func(_ int, link *goquery.Selection) {
		href, _ := link.Attr("href")
		match := pageParamRegex.FindStringSubmatch(href)
		if len(match) < 2 {
			return
		}
		n, err := strconv.Atoi(match[1])
		if err != nil {
			return
		}
		if n > maxPage {
			maxPage = n
		}
	})
	return maxPage
}
