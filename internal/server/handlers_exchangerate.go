package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	ratedomain "github.com/smallbiznis/cloudslip/internal/exchangerate/domain"
)

func (s *Server) ListExchangeRates(c *gin.Context) {
	from, err := parseOptionalTime(c.Query("from"), false)
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	to, err := parseOptionalTime(c.Query("to"), true)
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	limit, _ := parsePage(c)

	rates, err := s.rateSvc.List(c.Request.Context(), ratedomain.ListRequest{
		CurrencyFrom: c.Query("currency_from"),
		CurrencyTo:   c.Query("currency_to"),
		From:         from,
		To:           to,
		Limit:        limit,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rates": rates})
}

type upsertRateRequest struct {
	Rates []struct {
		RateDate     string `json:"rate_date" binding:"required"`
		CurrencyFrom string `json:"currency_from" binding:"required"`
		CurrencyTo   string `json:"currency_to" binding:"required"`
		BasicRate    string `json:"basic_rate" binding:"required"`
		SendRate     string `json:"send_rate"`
		BuyRate      string `json:"buy_rate"`
		SellRate     string `json:"sell_rate"`
	} `json:"rates" binding:"required"`
}

func (s *Server) UpsertExchangeRates(c *gin.Context) {
	var req upsertRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	rates := make([]ratedomain.ExchangeRate, 0, len(req.Rates))
	for _, in := range req.Rates {
		day, err := time.Parse(dateOnlyLayout, in.RateDate)
		if err != nil {
			AbortWithError(c, ErrInvalidRequest)
			return
		}
		basic, err := decimal.NewFromString(in.BasicRate)
		if err != nil || !basic.IsPositive() {
			AbortWithError(c, ErrInvalidRequest)
			return
		}
		rate := ratedomain.ExchangeRate{
			RateDate:     day,
			CurrencyFrom: in.CurrencyFrom,
			CurrencyTo:   in.CurrencyTo,
			BasicRate:    basic,
			Source:       "manual",
		}
		if in.SendRate != "" {
			if rate.SendRate, err = decimal.NewFromString(in.SendRate); err != nil {
				AbortWithError(c, ErrInvalidRequest)
				return
			}
		}
		if in.BuyRate != "" {
			if rate.BuyRate, err = decimal.NewFromString(in.BuyRate); err != nil {
				AbortWithError(c, ErrInvalidRequest)
				return
			}
		}
		if in.SellRate != "" {
			if rate.SellRate, err = decimal.NewFromString(in.SellRate); err != nil {
				AbortWithError(c, ErrInvalidRequest)
				return
			}
		}
		rates = append(rates, rate)
	}

	count, err := s.rateSvc.Upsert(c.Request.Context(), rates)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"upserted": count})
}

func (s *Server) LatestExchangeRate(c *gin.Context) {
	from := c.Query("currency_from")
	to := c.Query("currency_to")
	if from == "" || to == "" {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	rate, err := s.rateSvc.Latest(c.Request.Context(), from, to)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, rate)
}

func (s *Server) SyncExchangeRates(c *gin.Context) {
	day := time.Now().UTC()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse(dateOnlyLayout, raw)
		if err != nil {
			AbortWithError(c, ErrInvalidRequest)
			return
		}
		day = parsed
	}

	count, err := s.rateSvc.Sync(c.Request.Context(), day)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"synced": count, "date": day.Format(dateOnlyLayout)})
}
