package lifecycle

import (
	"fmt"
	"net/url"

	"github.com/shenikar/fire_command_center/internal/models"
)

// ShareText формирует текст оповещения об инциденте для мессенджера
func ShareText(inc models.Incident) string {
	return fmt.Sprintf("🚨 *ALERTA COE* 🚨\n\n*Tipo:* %s\n*Prioridade:* %s\n*Status:* %s\n*Local:* %s\n\n📍 *Coords:* https://maps.google.com/?q=%g,%g",
		inc.Type, inc.Priority, inc.Status, inc.Address, inc.Location.Lat, inc.Location.Lon)
}

// ShareURL возвращает ссылку WhatsApp Web с текстом оповещения
func ShareURL(inc models.Incident) string {
	return "https://web.whatsapp.com/send?text=" + url.QueryEscape(ShareText(inc))
}
