package model

// CustomerOrderStatus is the closed set of states a customer order moves
// through. Transitions not present in customerOrderNext are rejected.
type CustomerOrderStatus string

const (
	CustomerCreada           CustomerOrderStatus = "CREADA"
	CustomerPendientePago    CustomerOrderStatus = "PENDIENTE_PAGO"
	CustomerPagada           CustomerOrderStatus = "PAGADA"
	CustomerEnPreparacion    CustomerOrderStatus = "EN_PREPARACION"
	CustomerListaParaRecoger CustomerOrderStatus = "LISTA_PARA_RECOGER"
	CustomerEnCamino         CustomerOrderStatus = "EN_CAMINO"
	CustomerEntregada        CustomerOrderStatus = "ENTREGADA"
	CustomerCancelada        CustomerOrderStatus = "CANCELADA"
	CustomerReembolsada      CustomerOrderStatus = "REEMBOLSADA"
)

var customerOrderNext = map[CustomerOrderStatus]map[CustomerOrderStatus]bool{
	CustomerCreada:           {CustomerPendientePago: true, CustomerCancelada: true},
	CustomerPendientePago:    {CustomerPagada: true, CustomerCancelada: true},
	CustomerPagada:           {CustomerEnPreparacion: true, CustomerReembolsada: true, CustomerCancelada: true},
	CustomerEnPreparacion:    {CustomerListaParaRecoger: true, CustomerEnCamino: true, CustomerCancelada: true},
	CustomerListaParaRecoger: {CustomerEntregada: true, CustomerCancelada: true},
	CustomerEnCamino:         {CustomerEntregada: true, CustomerCancelada: true},
	CustomerEntregada:        {},
	CustomerCancelada:        {},
	CustomerReembolsada:      {},
}

// CanTransition reports whether the transition from -> to is allowed.
func (from CustomerOrderStatus) CanTransition(to CustomerOrderStatus) bool {
	return customerOrderNext[from][to]
}

// IsTerminal reports whether no further transitions are possible.
func (s CustomerOrderStatus) IsTerminal() bool {
	next, ok := customerOrderNext[s]
	return ok && len(next) == 0
}

// Valid reports whether s is a known customer order status.
func (s CustomerOrderStatus) Valid() bool {
	_, ok := customerOrderNext[s]
	return ok
}

// RestockOrderStatus is the closed set of states a restock order moves
// through. A restock order starts at ENVIADA (pre-accepted by the platform).
type RestockOrderStatus string

const (
	RestockCreada        RestockOrderStatus = "CREADA"
	RestockEnviada       RestockOrderStatus = "ENVIADA"
	RestockAceptada      RestockOrderStatus = "ACEPTADA"
	RestockEnPreparacion RestockOrderStatus = "EN_PREPARACION"
	RestockEnRuta        RestockOrderStatus = "EN_RUTA"
	RestockEntregada     RestockOrderStatus = "ENTREGADA"
	RestockRechazada     RestockOrderStatus = "RECHAZADA"
	RestockCancelada     RestockOrderStatus = "CANCELADA"
)

var restockOrderNext = map[RestockOrderStatus]map[RestockOrderStatus]bool{
	RestockCreada:        {RestockEnviada: true, RestockAceptada: true, RestockRechazada: true, RestockCancelada: true},
	RestockEnviada:       {RestockAceptada: true, RestockRechazada: true, RestockCancelada: true},
	RestockAceptada:      {RestockEnPreparacion: true, RestockCancelada: true},
	RestockEnPreparacion: {RestockEnRuta: true, RestockCancelada: true},
	RestockEnRuta:        {RestockEntregada: true, RestockCancelada: true},
	RestockEntregada:     {},
	RestockRechazada:     {},
	RestockCancelada:     {},
}

// CanTransition reports whether the transition from -> to is allowed.
func (from RestockOrderStatus) CanTransition(to RestockOrderStatus) bool {
	return restockOrderNext[from][to]
}

// IsTerminal reports whether no further transitions are possible.
func (s RestockOrderStatus) IsTerminal() bool {
	next, ok := restockOrderNext[s]
	return ok && len(next) == 0
}

// Valid reports whether s is a known restock order status.
func (s RestockOrderStatus) Valid() bool {
	_, ok := restockOrderNext[s]
	return ok
}
