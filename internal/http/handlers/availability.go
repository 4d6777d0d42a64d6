package handlers

import (
	"net/http"

	intconfig "busline/internal/config"
	"busline/internal/http/middleware"
	"busline/internal/repositories"
	"busline/internal/services"

	"github.com/gin-gonic/gin"
)

func availabilityService(c *gin.Context) services.AvailabilityService {
	return services.AvailabilityService{
		Routes:    repositories.RouteRepository{DB: intconfig.DB},
		RequestID: middleware.GetRequestID(c),
	}
}

// GET /api/routes/availability?startDate=&endDate=
func GetRoutesWithAvailability(c *gin.Context) {
	start, ok := parseDateQuery(c, "startDate")
	if !ok {
		return
	}
	end, ok := parseDateQuery(c, "endDate")
	if !ok {
		return
	}

	routes, err := availabilityService(c).GetRoutesWithAvailability(middleware.GetCompanyID(c), start, end)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"routes": routes, "count": len(routes)})
}

// GET /api/routes/:id/availability?startDate=&endDate=
func GetRouteAvailability(c *gin.Context) {
	routeID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	start, ok := parseDateQuery(c, "startDate")
	if !ok {
		return
	}
	end, ok := parseDateQuery(c, "endDate")
	if !ok {
		return
	}

	out, err := availabilityService(c).GetRouteAvailability(routeID, middleware.GetCompanyID(c), start, end)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}
