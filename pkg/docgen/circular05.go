package docgen

import (
	"fmt"
	"strconv"
	"strings"
)

// ItineraryItem one row of the travel itinerary.
type ItineraryItem struct {
	Time     string `json:"hora"`
	Activity string `json:"actividad"`
	Place    string `json:"lugar"`
}

// Chaperone teacher responsible for the group.
type Chaperone struct {
	Name     string `json:"nombre"`
	Position string `json:"cargo"`
}

// Student attendee.
type Student struct {
	Name       string `json:"nombre"`
	CURP       string `json:"curp"`
	NIA        string `json:"nia"`
	NSS        string `json:"nss"`
	Discipline string `json:"disciplina"`
}

// Circular05 payload of the event participation request (Circular 05).
// JSON names follow the form the director portal submits.
type Circular05 struct {
	SupervisorName string `json:"supervisorNombre"`
	SchoolZone     string `json:"zonaEscolar"`
	DirectorName   string `json:"directorNombre"`
	SchoolName     string `json:"bachilleratoNombre"`
	CCT            string `json:"cct"`
	Municipality   string `json:"municipio"`
	Locality       string `json:"localidad"`

	Recipient      string `json:"destinatario"`
	RecipientTitle string `json:"cargoDestinatario"`
	RecipientZone  string `json:"zonaDestinatario"`

	EventName     string `json:"nombreEvento"`
	Discipline    string `json:"disciplinaRama"`
	Venue         string `json:"sede"`
	VenueAddress  string `json:"domicilioSede"`
	EventDate     string `json:"fechaEvento"`
	StartTime     string `json:"horaInicio"`
	EndTime       string `json:"horaTermino"`
	EducationGoal string `json:"objetivoEducativo"`

	Itinerary []ItineraryItem `json:"itinerario"`

	OutboundCost string `json:"gastoTransporteIda"`
	FoodCost     string `json:"gastoAlimentos"`
	ReturnCost   string `json:"gastoTransporteRegreso"`
	Funding      string `json:"financiamiento"`

	TransportType      string `json:"tipoTransporte"`
	VehicleDescription string `json:"descripcionVehiculo"`
	DriverName         string `json:"nombreConductor"`
	Insurer            string `json:"aseguradora"`
	PolicyNumber       string `json:"numeroPoliza"`

	Chaperones []Chaperone `json:"docentesResponsables"`
	FirstAider string      `json:"personaPrimerosAuxilios"`
	Students   []Student   `json:"alumnos"`

	// CycleName is filled by the server, never by the client.
	CycleName string `json:"-"`
}

// Missing lists the required fields that are blank, by JSON name.
func (c *Circular05) Missing() []string {
	var out []string
	for _, f := range []struct {
		name, v string
	}{
		{"directorNombre", c.DirectorName},
		{"bachilleratoNombre", c.SchoolName},
		{"cct", c.CCT},
		{"localidad", c.Locality},
		{"zonaEscolar", c.SchoolZone},
		{"destinatario", c.Recipient},
		{"nombreEvento", c.EventName},
		{"disciplinaRama", c.Discipline},
		{"sede", c.Venue},
		{"fechaEvento", c.EventDate},
	} {
		if strings.TrimSpace(f.v) == "" {
			out = append(out, f.name)
		}
	}
	if len(c.Students) == 0 {
		out = append(out, "alumnos")
	}
	return out
}

// FileName suggested download name.
func (c *Circular05) FileName() string {
	return fmt.Sprintf("Proyecto_Circular05_%s_%s.docx", c.CCT, strings.Join(strings.Fields(c.Discipline), "_"))
}

var letterhead = []string{
	"SECRETARÍA DE EDUCACIÓN",
	"SUBSECRETARÍA DE EDUCACIÓN BÁSICA Y MEDIA SUPERIOR",
	"DIRECCIÓN DE BACHILLERATOS ESTATALES Y PREPARATORIA ABIERTA",
	"SUPERVISIÓN DE BACHILLERATOS GENERALES ESTATALES",
}

var annexes = []string{
	"Autorización para participar en eventos deportivos.",
	"Objetivo educativo de la participación.",
	"Destino y duración del traslado.",
	"Itinerario del traslado.",
	"Relación de asistentes.",
	"Transporte y custodia.",
	"Constancia e INE del responsable de primeros auxilios.",
	"Seguro del viajero.",
	"Contrato de transporte.",
	"Comisiones de docentes y demás personal.",
	"Oficio de autorización por parte de la supervisión escolar.",
	"Permiso firmado por los padres de familia o tutores, se anexan copias de INE.",
	"Credencial escolar y seguro facultativo de todos los aprendientes del plantel.",
}

const motto = `"POR UNA EDUCACION DE CALIDAD A LA VANGUARDIA POBLANA."`

// RenderCircular05 builds the request letter, the operating project, the
// attendee list and one commission letter per chaperone.
func RenderCircular05(c *Circular05) ([]byte, error) {
	d := &Document{}
	heading := func() {
		for _, l := range letterhead {
			d.Paragraph(l, Run{Bold: true, Size: 20, Align: AlignCenter, After: 40})
		}
		d.Paragraph("ZONA ESCOLAR "+c.SchoolZone, Run{Bold: true, Align: AlignCenter, After: 200})
	}
	left := func(s string, bold bool) { d.Paragraph(s, Run{Bold: bold, Align: AlignLeft, After: 120}) }
	body := func(s string) { d.Paragraph(s, Run{After: 120}) }
	section := func(s string) { d.Paragraph(s, Run{Bold: true, Size: 24, Align: AlignLeft, Before: 240, After: 120}) }
	place := fmt.Sprintf("%s, PUE; a %s.", strings.ToUpper(c.Locality), c.EventDate)
	addressee := func() {
		d.Spacer(80)
		left(c.Recipient, true)
		d.Paragraph(c.RecipientTitle, Run{Size: 20, Align: AlignLeft, After: 120})
		d.Paragraph(c.RecipientZone, Run{Size: 20, Align: AlignLeft, After: 120})
		left("PRESENTE", true)
		d.Spacer(80)
	}
	signature := func(name, title string) {
		d.Paragraph("A T E N T A M E N T E", Run{Bold: true, Align: AlignCenter, After: 120})
		d.Paragraph(motto, Run{Size: 20, Align: AlignCenter, After: 120})
		d.Paragraph("", Run{Before: 600})
		d.Paragraph("__________________________", Run{Align: AlignCenter})
		d.Paragraph(name, Run{Bold: true, Align: AlignCenter, After: 20})
		d.Paragraph(title, Run{Size: 20, Align: AlignCenter, After: 120})
	}
	ccp := func(first string) {
		d.Paragraph(first, Run{Size: 18, After: 120})
		d.Paragraph("c.c.p. Comité de APF. Para su conocimiento", Run{Size: 18, After: 120})
		d.Paragraph("c.c.p. Archivo del plantel.", Run{Size: 18, After: 120})
	}

	// request letter
	heading()
	d.Spacer(200)
	left("Asunto: Solicitud para participar en "+c.EventName, true)
	left(place, false)
	addressee()
	body(fmt.Sprintf(`Por medio de la presente reciba un cordial saludo de parte del responsable del plantel %s y de todo el personal docente, apoyo administrativo y de servicio del Bachillerato General Estatal "%s", con C.C.T: %s de %s, Puebla, perteneciente a la %s, el motivo por el cual me dirijo a usted es para hacer de su entero conocimiento el proyecto y logística para asistir a %s en la disciplina de %s; a realizarse en %s, %s.`,
		c.DirectorName, c.SchoolName, c.CCT, c.Locality, c.RecipientZone, c.EventName, c.Discipline, c.Venue, c.VenueAddress))
	d.Spacer(80)
	d.Paragraph("NOTA: Se anexan a este oficio, los documentos siguientes:", Run{Bold: true, After: 120})
	for _, a := range annexes {
		d.Paragraph(a, Run{Size: 20, After: 40, Bullet: true, Align: AlignLeft})
	}
	d.Spacer(100)
	body("Sin más por el momento y en espera de una favorable respuesta, le reiteramos nuestro más sincero agradecimiento.")
	signature(c.DirectorName, "DIRECTOR")
	ccp(fmt.Sprintf("c.c.p. %s, %s, %s. Para su conocimiento", c.Recipient, c.RecipientTitle, c.RecipientZone))

	// operating project
	d.PageBreak()
	heading()
	left(fmt.Sprintf("Asunto: Proyecto para participar en %s - %s", c.EventName, c.Discipline), true)
	left(place, false)
	addressee()
	body(fmt.Sprintf(`Por medio de la presente reciba un cordial saludo de parte del responsable del bachillerato %s y de todo el personal docente, apoyo administrativo del Bachillerato General Estatal "%s", C.C.T: %s de %s, Puebla, el motivo por el cual me dirijo a usted es para hacer de su entero conocimiento el proyecto y logística para asistir a %s de la zona escolar %s, denominado "%s"; a realizarse en %s, %s.`,
		c.DirectorName, c.SchoolName, c.CCT, c.Locality, c.EventName, c.SchoolZone, c.Discipline, c.Venue, c.VenueAddress))
	section("PROYECTO")
	section("OBJETIVO EDUCATIVO")
	body(c.EducationGoal)
	section("DESTINO Y DURACIÓN")
	d.Table([]int{30, 70}, [][]string{
		{"LUGAR Y FECHA", fmt.Sprintf("%s, PUEBLA A %s", strings.ToUpper(c.VenueAddress), strings.ToUpper(c.EventDate))},
		{"DESTINO", fmt.Sprintf("ESCUELA: %s C.C.T. %s", strings.ToUpper(c.Venue), c.CCT)},
		{"DURACIÓN", fmt.Sprintf("%s a %s", c.StartTime, c.EndTime)},
	}, false)
	section("ITINERARIO")
	rows := [][]string{{"HORA", "EVENTO", "LUGAR"}}
	for _, it := range c.Itinerary {
		rows = append(rows, []string{it.Time, it.Activity, it.Place})
	}
	d.Table([]int{20, 50, 30}, rows, true)

	// attendees
	d.PageBreak()
	heading()
	section("RELACIÓN DE ASISTENTES")
	rows = [][]string{{"N°", "NOMBRE COMPLETO", "CURP", "NIA", "NSS", "DISCIPLINA"}}
	for i, s := range c.Students {
		rows = append(rows, []string{strconv.Itoa(i + 1), s.Name, s.CURP, s.NIA, s.NSS, s.Discipline})
	}
	d.Table([]int{5, 30, 25, 15, 15, 10}, rows, true)

	section("GASTOS")
	body("*TRASLADO DIRECTO A LA SEDE: $" + c.OutboundCost)
	body("ALMUERZO PARA LOS PARTICIPANTES: $" + c.FoodCost)
	body("*TRASLADO DE REGRESO A LA COMUNIDAD: $" + c.ReturnCost)
	body("FINANCIAMIENTO: " + c.Funding)

	section("TRANSPORTE Y CUSTODIA")
	d.Paragraph("Datos de la Empresa y vehículo que proporcionará el servicio de transporte.", Run{Bold: true, After: 120})
	d.Paragraph("Tipo de transporte: "+c.TransportType, Run{Bullet: true, After: 40, Align: AlignLeft})
	d.Paragraph("Descripción del vehículo: "+c.VehicleDescription, Run{Bullet: true, After: 40, Align: AlignLeft})
	d.Paragraph("Nombre del conductor: "+c.DriverName, Run{Bullet: true, After: 40, Align: AlignLeft})
	d.Spacer(80)
	d.Paragraph("Relación del personal de custodia:", Run{Bold: true, After: 120})
	rows = [][]string{{"N°", "NOMBRE", "CARGO"}, {"1", c.DirectorName, "Responsable del plantel"}}
	for i, ch := range c.Chaperones {
		rows = append(rows, []string{strconv.Itoa(i + 2), ch.Name, ch.Position})
	}
	rows = append(rows, []string{strconv.Itoa(len(c.Chaperones) + 2), c.FirstAider, "Persona capacitada en primeros auxilios"})
	d.Table([]int{10, 50, 40}, rows, true)
	d.Spacer(80)
	total := len(c.Students) + len(c.Chaperones) + 2
	summary := fmt.Sprintf("El total de viajeros son %d, de los cuales %d son aprendientes, %d son personal docente/administrativo, 1 es el responsable del plantel y 1 es la persona capacitada en primeros auxilios.",
		total, len(c.Students), len(c.Chaperones))
	if c.CycleName != "" {
		summary += " Ciclo escolar " + c.CycleName + "."
	}
	body(summary)

	// insurance and closing
	d.PageBreak()
	heading()
	section("SEGURO DEL VIAJERO")
	body(fmt.Sprintf("Se anexará copia del contrato, la póliza de seguro de viajero vigente proporcionada por la empresa de transporte contratada para el evento y la licencia del operador. Aseguradora: %s. No. de Póliza: %s.", c.Insurer, c.PolicyNumber))
	section("AUTORIZACIÓN DE PADRES DE FAMILIA")
	body("Se anexan copias de los formatos de aceptación y permiso firmados por los padres de familia o tutor de los alumnos participantes, con copia de la credencial del INE de los padres de familia o tutor que fueron entregados a la Dirección de esta institución educativa.")
	section("CUMPLIMIENTO CON LOS LINEAMIENTOS")
	body(fmt.Sprintf("El proyecto será presentado a la Dirección Escolar y supervisión de la zona escolar %s para solicitar el visto bueno del evento, en estricto apego a los lineamientos establecidos por la Secretaría de Educación Pública del Estado de Puebla. La solicitud será entregada con una anticipación de 72 horas antes de la realización del evento.", c.SchoolZone))
	d.Spacer(100)
	signature(c.DirectorName, "RESPONSABLE DEL BACHILLERATO")

	for _, ch := range c.Chaperones {
		d.PageBreak()
		heading()
		left("Asunto: OFICIO DE COMISIÓN", true)
		left(place, false)
		d.Spacer(80)
		left(strings.ToUpper(ch.Name), true)
		left(strings.ToUpper(ch.Position), false)
		left("PRESENTE", true)
		d.Spacer(80)
		body(fmt.Sprintf(`Por medio del presente, y en atención a las necesidades del servicio educativo, se le comisiona para acompañar y ser responsable del grupo de alumnos del Bachillerato General Estatal "%s", C.C.T. %s, durante su participación en %s - %s, a realizarse el día %s en %s, %s.`,
			c.SchoolName, c.CCT, c.EventName, c.Discipline, c.EventDate, c.Venue, c.VenueAddress))
		d.Spacer(80)
		body("Se le encomienda la custodia, salvaguardar la integridad física y velar por el bienestar de los alumnos a su cargo durante todo el trayecto y la estancia en la sede del evento.")
		d.Spacer(80)
		body("Sin más por el momento, le envío un cordial saludo.")
		d.Spacer(100)
		signature(c.DirectorName, "DIRECTOR")
		ccp(fmt.Sprintf("c.c.p. %s, %s. Para su conocimiento", c.Recipient, c.RecipientTitle))
	}

	return d.Bytes()
}
